// Package cli wires the command surface: auth, chat history, documents,
// the interactive chat session, and the local stub backend.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"docchat/internal/config"
	"docchat/internal/domain/ports/repository"
	"docchat/internal/infra/api"
	"docchat/internal/infra/localstate"
	"docchat/internal/infra/logging"
	"docchat/internal/infra/memory"
	"docchat/internal/store"
	"docchat/internal/usecase"
)

var (
	configPath string
	mockMode   bool
	verbose    bool

	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents from the terminal",
	Long: `docchat talks to a document Q&A backend: upload documents, ask
questions about them in chat sessions, and browse past conversations.

Quick start:
  docchat --mock chats list          # browse seeded fixture chats offline
  docchat --mock chat chat-roadmap   # open an interactive session
  docchat stub                       # run the local dev backend`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			_ = application.Close()
		}
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&mockMode, "mock", false, "Use seeded in-memory fixtures instead of the remote API")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "docchat.yaml"
	}
	return filepath.Join(home, ".docchat", "config.yaml")
}

// app holds everything a command needs, built once per invocation.
type app struct {
	cfg   *config.Config
	log   *zerolog.Logger
	state *localstate.Store
	store *store.ChatStore

	chats repository.ChatRepository
	docs  repository.DocumentRepository

	auth usecase.AuthUseCase
	chat usecase.ChatUseCase
	hist usecase.HistoryUseCase
	doc  usecase.DocumentUseCase
}

var application *app

func getApp(cmd *cobra.Command) (*app, error) {
	if application != nil {
		return application, nil
	}

	cfg, err := config.LoadConfig(configPath, mockMode)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	log := logging.New(cfg.Log)

	state, err := localstate.Open(cfg.State.Dir)
	if err != nil {
		return nil, fmt.Errorf("open local state: %w", err)
	}

	a := &app{cfg: cfg, log: log, state: state, store: store.NewChatStore()}

	var gw repository.AuthGateway
	if cfg.Runtime.Mock {
		fx := memory.NewFixtures(cfg.Stub.ReplyDelay)
		a.chats, a.docs, gw = fx.Chats, fx.Docs, fx.Auth
	} else {
		client, err := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, func() string {
			creds, err := state.LoadCredentials()
			if err != nil {
				return ""
			}
			return creds.Token
		}, func() {
			_ = state.ClearCredentials()
			fmt.Fprintln(os.Stderr, "Session expired, run `docchat login` again.")
		}, log)
		if err != nil {
			_ = state.Close()
			return nil, err
		}
		a.chats = api.NewChatRepo(client)
		a.docs = api.NewDocumentRepo(client)
		gw = api.NewAuthGateway(client)
	}

	a.auth = usecase.NewAuthUseCase(gw, state, log)
	a.chat = usecase.NewChatUseCase(a.chats, a.store, log)
	a.hist = usecase.NewHistoryUseCase(a.chats, a.store, log)
	a.doc = usecase.NewDocumentUseCase(a.docs, log)

	// Fixture sessions live only for this process, so the dev account
	// signs in transparently.
	if cfg.Runtime.Mock {
		if _, err := a.auth.Login(cmd.Context(), memory.DevEmail, memory.DevPassword); err != nil {
			_ = state.Close()
			return nil, fmt.Errorf("fixture login: %w", err)
		}
	}

	application = a
	return a, nil
}

func (a *app) Close() error {
	return a.state.Close()
}
