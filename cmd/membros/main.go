package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/membros/internal/db"
	"github.com/gestaozabele/membros/internal/db/migrations"
	"github.com/gestaozabele/membros/internal/intencao"
	"github.com/gestaozabele/membros/internal/notify"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if dsn == "" {
		log.Fatal().Msg("defina DB_DSN ou DATABASE_URL")
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "migrate" {
		if err := runMigrate(dsn, args); err != nil {
			log.Fatal().Err(err).Msg("falha nas migrações")
		}
		return
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, dsn, db.PoolOptions{MaxConns: 2, ConnectTimeout: 5 * time.Second})
	if err != nil {
		log.Fatal().Err(err).Msg("não foi possível conectar ao banco")
	}
	defer pool.Close()

	registerURL := strings.TrimSpace(os.Getenv("REGISTER_URL"))
	if registerURL == "" {
		registerURL = "http://localhost:3000/register"
	}

	service := intencao.NewService(pool, intencao.Options{
		RegisterURL: registerURL,
		Notifier:    notify.NewLogNotifier(log.Logger),
		Logger:      log.Logger,
	})

	switch cmd {
	case "list":
		err = runList(ctx, service, args)
	case "approve":
		err = runDecide(ctx, service, registerURL, intencao.StatusApproved, args)
	case "reject":
		err = runDecide(ctx, service, registerURL, intencao.StatusRejected, args)
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("comando falhou")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "membros CLI")
	fmt.Fprintln(os.Stderr, "uso:")
	fmt.Fprintln(os.Stderr, "  membros migrate up|down|version")
	fmt.Fprintln(os.Stderr, "  membros list [--status pending|approved|rejected]")
	fmt.Fprintln(os.Stderr, "  membros approve <id>")
	fmt.Fprintln(os.Stderr, "  membros reject <id>")
}

func runMigrate(dsn string, args []string) error {
	if len(args) != 1 {
		return errors.New("informe up, down ou version")
	}

	switch args[0] {
	case "up":
		if err := migrations.Up(dsn); err != nil {
			return err
		}
		log.Info().Msg("migrações aplicadas")
	case "down":
		if err := migrations.Down(dsn); err != nil {
			return err
		}
		log.Info().Msg("última migração desfeita")
	case "version":
		version, dirty, err := migrations.Version(dsn)
		if err != nil {
			return err
		}
		fmt.Printf("versão %d (dirty=%t)\n", version, dirty)
	default:
		return fmt.Errorf("subcomando de migrate desconhecido: %s", args[0])
	}
	return nil
}

func runList(ctx context.Context, service *intencao.Service, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	status := fs.String("status", "", "filtra por status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	items, err := service.List(ctx, *status)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("nenhuma intenção encontrada")
		return nil
	}

	return printJSON(os.Stdout, items)
}

func runDecide(ctx context.Context, service *intencao.Service, registerURL, status string, args []string) error {
	if len(args) != 1 {
		return errors.New("informe o id da intenção")
	}
	id, err := uuid.Parse(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("id inválido: %w", err)
	}

	result, err := service.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}

	log.Info().Str("intencao_id", id.String()).Str("status", result.Intencao.Status).Msg("intenção atualizada")
	if result.Convite != nil {
		fmt.Println(notify.RegisterLink(registerURL, result.Convite.Token))
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar saída: %w", err)
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}
