package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sigcpef/personnel-api/internal/core/domain"
	"github.com/sigcpef/personnel-api/internal/core/ports"
	"github.com/sigcpef/personnel-api/internal/core/service"
	mongodb "github.com/sigcpef/personnel-api/internal/infrastructure/db/mongo"
	"github.com/sigcpef/personnel-api/internal/pkg/config"
)

const minPasswordLength = 8

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage operator accounts",
		Long:  "Create, update and (de)activate operator accounts directly against the database. Used to bootstrap the first ADMIN.",
	}

	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserUpdateCmd())
	cmd.AddCommand(newUserActivateCmd("deactivate", false))
	cmd.AddCommand(newUserActivateCmd("activate", true))

	return cmd
}

// ---------- user create ----------

func newUserCreateCmd() *cobra.Command {
	var (
		email    string
		password string
		name     string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new operator account",
		Example: `  sigcpef user create --email admin@sigcpef.bo --name "Admin" --role ADMIN
  sigcpef user create --email rrhh@sigcpef.bo --name "Ana" --role RRHH --password secret123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserCreate(cmd.Context(), email, password, name, role)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted if omitted)")
	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "One of RRHH, OPERACIONES, ICAP, ADMIN")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runUserCreate(ctx context.Context, email, password, name, role string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := domain.ParseRole(role); !ok {
		return fmt.Errorf("invalid role %q", role)
	}

	if password == "" {
		var err error
		if password, err = promptPassword(); err != nil {
			return err
		}
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	db := mongodb.NewLazy(mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database}, mongodb.EnsureIndexes)
	defer db.Close(context.Background())

	// Only Register is used, so no token issuer or login publisher is needed.
	auth := service.NewAuthService(
		mongodb.NewUserRepository(db),
		service.NewBcryptHasher(cfg.Auth.BcryptCost, 1),
		nil, nil,
		zerolog.Nop(),
	)

	user, err := auth.Register(ctx, ports.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Printf("Created user %q (id %s, role %s)\n", user.Email, user.ID, user.Role)
	return nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	fmt.Println()

	if string(pwBytes) != string(confirmBytes) {
		return "", fmt.Errorf("passwords do not match")
	}
	return strings.TrimRight(string(pwBytes), "\r\n"), nil
}

// ---------- user update ----------

func newUserUpdateCmd() *cobra.Command {
	var email, name, role string

	cmd := &cobra.Command{
		Use:     "update",
		Short:   "Rename an operator account or change its role",
		Example: `  sigcpef user update --email ana@sigcpef.bo --role ICAP`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			db := mongodb.NewLazy(mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database}, nil)
			defer db.Close(context.Background())

			// No hashing, token or audit work happens on this path.
			auth := service.NewAuthService(mongodb.NewUserRepository(db), nil, nil, nil, zerolog.Nop())
			user, err := auth.UpdateProfile(ctx, email, name, role)
			if err != nil {
				return fmt.Errorf("update user: %w", err)
			}
			fmt.Printf("Updated user %q (name %q, role %s)\n", user.Email, user.Name, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&role, "role", "", "New role: RRHH, OPERACIONES, ICAP or ADMIN")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// ---------- user activate / deactivate ----------

func newUserActivateCmd(use string, active bool) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   use,
		Short: strings.ToUpper(use[:1]) + use[1:] + " an operator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			db := mongodb.NewLazy(mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database}, nil)
			defer db.Close(context.Background())

			users := mongodb.NewUserRepository(db)
			user, err := users.FindByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("find user %q: %w", email, err)
			}
			if _, err := users.SetActive(ctx, user.ID, active); err != nil {
				return fmt.Errorf("update user: %w", err)
			}
			fmt.Printf("User %q active=%t\n", user.Email, active)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
