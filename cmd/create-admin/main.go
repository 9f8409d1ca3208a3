package main

import (
	"fmt"
	"os"

	"hostpanel/backend/internal/auth"
	"hostpanel/backend/internal/config"
	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/storage"
	"hostpanel/backend/internal/storage/memory"
	sqlstore "hostpanel/backend/internal/storage/sql"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: create-admin <email> <password> <username> [super|admin]")
		os.Exit(1)
	}

	email := os.Args[1]
	password := os.Args[2]
	username := os.Args[3]
	role := domain.RoleAdmin
	if len(os.Args) >= 5 && os.Args[4] == "super" {
		role = domain.RoleSuper
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 创建存储
	var store storage.Store
	if cfg.Database.Type != "" && cfg.Database.DSN != "" {
		sqlStore, err := sqlstore.NewStore(
			cfg.Database.Type,
			cfg.Database.DSN,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLifetime,
		)
		if err != nil {
			fmt.Printf("Failed to connect to database: %v\n", err)
			os.Exit(1)
		}
		store = sqlStore
	} else {
		store = memory.NewStore()
	}
	defer store.Close()

	operator, err := auth.NewService(store).CreateOperator(auth.CreateOperatorInput{
		Email:    email,
		Password: password,
		Username: username,
		Role:     role,
	})
	if err != nil {
		fmt.Printf("Failed to create operator: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Operator created successfully!\n")
	fmt.Printf("  ID:       %s\n", operator.ID)
	fmt.Printf("  Email:    %s\n", operator.Email)
	fmt.Printf("  Username: %s\n", operator.Username)
	fmt.Printf("  Role:     %s\n", operator.Role)
	if cfg.Database.Type == "" || cfg.Database.DSN == "" {
		fmt.Println("\nNote: no database configured, the operator exists only in this")
		fmt.Println("process's memory. Configure DATABASE_TYPE and DATABASE_DSN to persist it.")
	}
}
