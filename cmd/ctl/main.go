package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ScroogeKZ/CreativeStudio/internal/auth"
	"github.com/ScroogeKZ/CreativeStudio/internal/cache"
	"github.com/ScroogeKZ/CreativeStudio/internal/config"
	"github.com/ScroogeKZ/CreativeStudio/internal/content"
	"github.com/ScroogeKZ/CreativeStudio/internal/db"
	"github.com/ScroogeKZ/CreativeStudio/internal/i18n"
	"github.com/ScroogeKZ/CreativeStudio/internal/identity"
)

func main() {
	root := &cobra.Command{
		Use:           "ctl",
		Short:         "CreativeStudio backend operations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(seedCmd())
	root.AddCommand(createAdminCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func connect(ctx context.Context) (*db.Postgres, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	pg, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return pg, cfg, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			pg, _, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := db.Migrate(pg.DB); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the admin account (flags fall back to ADMIN_* env)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			pg, cfg, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pg.Close()

			if email == "" {
				email = cfg.AdminEmail
			}
			if password == "" {
				password = cfg.AdminPassword
			}
			if name == "" {
				name = cfg.AdminName
			}
			if email == "" || password == "" {
				return fmt.Errorf("email and password are required")
			}

			log := slog.New(slog.NewTextHandler(io.Discard, nil))
			admins := identity.NewAdminService(identity.NewRepository(pg), &auth.Manager{}, log)

			user, created, err := admins.EnsureAdmin(ctx, email, password, name)
			if err != nil {
				return err
			}
			if created {
				fmt.Printf("admin created: %s (%s)\n", user.Email, user.ID)
			} else {
				fmt.Printf("admin already exists: %s (%s)\n", user.Email, user.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&name, "name", "", "admin display name")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert starter content (skips when services already exist)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			pg, _, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := db.Migrate(pg.DB); err != nil {
				return err
			}

			log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
			repo := content.NewRepository(pg)
			svc := content.NewService(repo, cache.NewNoop(), 0, log)

			existing, err := repo.ListServices(ctx, true)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				fmt.Println("content already present, nothing to seed")
				return nil
			}

			for _, req := range seedServices() {
				created, err := svc.CreateService(ctx, req)
				if err != nil {
					return fmt.Errorf("seed service %q: %w", req.Slug, err)
				}
				fmt.Println("seeded service:", created.Slug)
			}
			return nil
		},
	}
}

func seedServices() []content.ServiceUpsertRequest {
	return []content.ServiceUpsertRequest{
		{
			Slug: "branding",
			Name: i18n.Text{
				RU: "Брендинг", KZ: "Брендинг", EN: "Branding",
			},
			Subtitle: i18n.Text{
				RU: "Айдентика и стиль", KZ: "Айдентика және стиль", EN: "Identity and style",
			},
			Description: i18n.Text{
				RU: "Разработка фирменного стиля под ключ.",
				KZ: "Фирмалық стильді толық әзірлеу.",
				EN: "Full-cycle brand identity development.",
			},
			Color:    "#E94F37",
			Features: i18n.StringList{"logo", "guidelines", "naming"},
		},
		{
			Slug: "digital-marketing",
			Name: i18n.Text{
				RU: "Диджитал-маркетинг", KZ: "Диджитал-маркетинг", EN: "Digital marketing",
			},
			Subtitle: i18n.Text{
				RU: "Продвижение и реклама", KZ: "Жылжыту және жарнама", EN: "Promotion and advertising",
			},
			Description: i18n.Text{
				RU: "Таргетированная реклама и SMM.",
				KZ: "Таргеттелген жарнама және SMM.",
				EN: "Targeted advertising and SMM.",
			},
			Color:    "#3F88C5",
			Features: i18n.StringList{"smm", "targeting", "analytics"},
		},
		{
			Slug: "web-development",
			Name: i18n.Text{
				RU: "Веб-разработка", KZ: "Веб-әзірлеу", EN: "Web development",
			},
			Subtitle: i18n.Text{
				RU: "Сайты и лендинги", KZ: "Сайттар мен лендингтер", EN: "Websites and landing pages",
			},
			Description: i18n.Text{
				RU: "Корпоративные сайты и интернет-магазины.",
				KZ: "Корпоративтік сайттар мен интернет-дүкендер.",
				EN: "Corporate websites and online stores.",
			},
			Color:    "#44BBA4",
			Features: i18n.StringList{"landing", "cms", "ecommerce"},
		},
	}
}
