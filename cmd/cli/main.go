package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	postgresRepo "github.com/iho/paywal/internal/adapter/repository/postgres"
	"github.com/iho/paywal/internal/domain"
	"github.com/iho/paywal/internal/infrastructure/auth"
	"github.com/iho/paywal/internal/infrastructure/config"
	"github.com/iho/paywal/internal/infrastructure/logger"
	"github.com/iho/paywal/internal/infrastructure/postgres"
	"github.com/iho/paywal/internal/usecase"
)

type options struct {
	baseURL string
	token   string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "paywal-cli",
		Short:         "Paywal CLI tool",
		Long:          `A command line interface for the Paywal wallet API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the Paywal API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("PAYWAL_TOKEN"), "Bearer token of the acting account")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(consistencyCmd(opts), reportCmd(opts))

	rootCmd.AddCommand(
		transferCmd(opts),
		balanceCmd(opts),
		historyCmd(opts),
		ledgerCmd,
		accountCmd(),
		tokenCmd(),
		migrateCmd(),
	)

	return rootCmd
}

func transferCmd(opts *options) *cobra.Command {
	var (
		to             string
		amount         string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Send funds from the token's account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := decimal.NewFromString(amount); err != nil {
				return fmt.Errorf("invalid amount %q", amount)
			}

			headers := map[string]string{}
			if idempotencyKey != "" {
				headers["Idempotency-Key"] = idempotencyKey
			}

			body := map[string]string{"recipient_id": to, "amount": amount}
			return opts.call(cmd, http.MethodPost, "/api/v1/transfers", body, headers)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Recipient account ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to send")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Key that makes retries of this transfer safe")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func balanceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the token account's balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.call(cmd, http.MethodGet, "/api/v1/accounts/me/balance", nil, nil)
		},
	}
}

func historyCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent transfers of the token's account",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/accounts/me/transfers?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
			return opts.call(cmd, http.MethodGet, path, nil, nil)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", usecase.DefaultHistoryLimit, "Number of transfers to show")

	return cmd
}

func consistencyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.call(cmd, http.MethodGet, "/api/v1/ledger/consistency", nil, nil); err != nil {
				return fmt.Errorf("consistency check FAILED: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Consistency check PASSED")
			return nil
		},
	}
}

func reportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Reconcile every account against the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.call(cmd, http.MethodGet, "/api/v1/ledger/reconciliation", nil, nil); err != nil {
				return fmt.Errorf("reconciliation FAILED: %w", err)
			}
			return nil
		},
	}
}

func accountCmd() *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account administration (direct database access)",
	}

	var (
		ownerID string
		opening string
	)

	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Open an account with an opening balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			balance, err := decimal.NewFromString(opening)
			if err != nil {
				return fmt.Errorf("invalid opening balance %q", opening)
			}

			return withAccounts(cmd, func(uc *usecase.AccountUseCase) error {
				account, err := uc.OpenAccount(cmd.Context(), usecase.OpenAccountInput{OwnerID: ownerID, OpeningBalance: balance})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), accountJSON(account))
			})
		},
	}

	openCmd.Flags().StringVar(&ownerID, "owner", "", "Owner ID")
	openCmd.Flags().StringVar(&opening, "opening-balance", "0", "Opening balance")
	_ = openCmd.MarkFlagRequired("owner")

	showCmd := &cobra.Command{
		Use:   "show <account-id>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAccounts(cmd, func(uc *usecase.AccountUseCase) error {
				account, err := uc.GetAccount(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), accountJSON(account))
			})
		},
	}

	var limit, offset int

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAccounts(cmd, func(uc *usecase.AccountUseCase) error {
				accounts, err := uc.ListAccounts(cmd.Context(), usecase.ListAccountsInput{Limit: limit, Offset: offset})
				if err != nil {
					return err
				}

				out := make([]map[string]string, len(accounts))
				for i, account := range accounts {
					out[i] = accountJSON(account)
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}

	listCmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")

	accountCmd.AddCommand(openCmd, showCmd, listCmd)
	return accountCmd
}

// withAccounts connects to the database named by the environment and runs fn.
func withAccounts(cmd *cobra.Command, fn func(uc *usecase.AccountUseCase) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(cmd.Context(), cfg.DatabaseURL, 2, 1)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(usecase.NewAccountUseCase(
		postgresRepo.NewAccountRepository(pool),
		postgresRepo.NewLedgerRepository(pool),
		postgresRepo.NewULIDGenerator(),
		cliLogger(cfg),
	))
}

func accountJSON(account *domain.Account) map[string]string {
	return map[string]string{
		"id":              account.ID,
		"owner_id":        account.OwnerID,
		"balance":         account.Balance.String(),
		"opening_balance": account.OpeningBalance.String(),
	}
}

func tokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Token utilities",
	}

	var (
		accountID string
		secret    string
		ttl       time.Duration
	)

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Mint a bearer token for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("a signing secret is required (--secret or JWT_SECRET)")
			}

			token, err := auth.NewJWTManager(secret, ttl).Generate(accountID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	issueCmd.Flags().StringVar(&accountID, "account", "", "Account ID the token acts for")
	issueCmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC signing secret")
	issueCmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = issueCmd.MarkFlagRequired("account")

	tokenCmd.AddCommand(issueCmd)
	return tokenCmd
}

func migrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log := cliLogger(cfg)
			if args[0] == "down" {
				return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.DatabaseMigrationsPath, log)
			}
			return postgres.RunMigrations(cfg.DatabaseURL, cfg.DatabaseMigrationsPath, log)
		},
	}

	return migrateCmd
}

func cliLogger(cfg *config.Config) zerolog.Logger {
	return logger.NewWithWriter(logger.Config{Level: cfg.LogLevel, Format: "console"}, os.Stderr)
}

// call sends a request to the API and prints the JSON response.
func (o *options) call(cmd *cobra.Command, method, path string, body any, headers map[string]string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	status, payload, err := o.do(ctx, method, path, body, headers)
	if err != nil {
		return err
	}

	if err := printRaw(cmd.OutOrStdout(), payload); err != nil {
		return err
	}

	if status < 200 || status >= 300 {
		return fmt.Errorf("request failed with status %d", status)
	}
	return nil
}

func (o *options) do(ctx context.Context, method, path string, body any, headers map[string]string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, o.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: o.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, payload, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRaw(w io.Writer, payload []byte) error {
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		_, err = fmt.Fprintln(w, string(bytes.TrimSpace(payload)))
		return err
	}
	return printJSON(w, v)
}
