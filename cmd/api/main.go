package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "microfin-ledger/internal/adapter/http"
	idem "microfin-ledger/internal/adapter/middleware"
	"microfin-ledger/internal/adapter/repository/mysql"
	"microfin-ledger/internal/config"
	domainCollateral "microfin-ledger/internal/domain/collateral"
	domainLoan "microfin-ledger/internal/domain/loan"
	domainMember "microfin-ledger/internal/domain/member"
	domainSavings "microfin-ledger/internal/domain/savings"
	"microfin-ledger/internal/infrastructure/cache"
	"microfin-ledger/internal/infrastructure/db"
	loanuc "microfin-ledger/internal/usecase/loan"
	memberuc "microfin-ledger/internal/usecase/member"
	repaymentuc "microfin-ledger/internal/usecase/repayment"
	savingsuc "microfin-ledger/internal/usecase/savings"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(
		&domainMember.Member{},
		&domainLoan.Loan{},
		&domainLoan.IDRecord{},
		&domainLoan.Installment{},
		&domainSavings.Transaction{},
		&domainCollateral.Collateral{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	members := mysql.NewMemberRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	insts := mysql.NewInstallmentRepository(gdb)
	savings := mysql.NewSavingsRepository(gdb)
	collaterals := mysql.NewCollateralRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	memberUC := memberuc.NewUsecase(members)
	savingsUC := savingsuc.NewUsecase(savings, tx)
	loanUC := loanuc.NewUsecase(loans, insts, collaterals, tx, loanuc.Config{
		InterestRate:          cfg.InterestRate,
		DefaultCollateralRate: cfg.DefaultCollateralRate,
		Brackets:              cfg.CollateralBrackets,
	})
	repaymentUC := repaymentuc.NewUsecase(tx)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())
	e.Use(idem.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	httpadp.RegisterRoutes(e,
		httpadp.NewHandler(),
		httpadp.NewMemberHandler(memberUC),
		httpadp.NewSavingsHandler(savingsUC),
		httpadp.NewLoanHandler(loanUC),
		httpadp.NewRepaymentHandler(repaymentUC),
	)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
