// Package admin implements the back-office command line. Every command logs in,
// runs against the resource clients and logs out again; the session only lives
// for the duration of one invocation.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"text/tabwriter"

	"docemania/config"
	"docemania/shared/notify"
	"docemania/transport/http/client"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const (
	flagEmail    = "email"
	flagPassword = "password"
)

const (
	emptyGallery      = "Nenhuma imagem na galeria ainda."
	emptyTestimonials = "Nenhum depoimento cadastrado ainda."
	emptyBookings     = "Nenhum agendamento encontrado."
)

var (
	ErrMissingID = errors.New("an id argument is required")

	errListFailed   = errors.New("list failed")
	errDeleteFailed = errors.New("delete failed")
)

// printNotifier prints notifications as "[variant] title: description".
type printNotifier struct {
	out io.Writer
}

func (p printNotifier) Notify(n notify.Notification) {
	fmt.Fprintf(p.out, "[%s] %s: %s\n", n.Variant, n.Title, n.Description)
}

type commands struct {
	api      *client.Client
	out      io.Writer
	notifier notify.Notifier
}

// NewApp builds the CLI. httpClient may be nil to use the configured timeout.
func NewApp(cfg *config.Config, httpClient *http.Client, out io.Writer) *cli.App {
	cmd := &commands{
		api:      client.New(cfg, httpClient),
		out:      out,
		notifier: printNotifier{out: out},
	}

	return &cli.App{
		Name:   "docemania-admin",
		Usage:  "manage the Doce Mania gallery, testimonials and bookings",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagEmail, Usage: "admin email", Value: cfg.Admin.Email},
			&cli.StringFlag{Name: flagPassword, Usage: "admin password", Value: cfg.Admin.Password},
		},
		Commands: []*cli.Command{
			cmd.galleryCommand(),
			cmd.testimonialCommand(),
			cmd.bookingCommand(),
		},
	}
}

// session logs in, runs fn with an authenticated client and always logs out.
func (c *commands) session(ctx *cli.Context, fn func(context.Context, *client.Client) error) error {
	session, err := c.api.Login(ctx.Context, ctx.String(flagEmail), ctx.String(flagPassword))
	if err != nil {
		c.notifier.Notify(notify.Destructive("Erro no login", "Email ou senha incorretos."))

		return fmt.Errorf("login failed: %w", err)
	}

	c.notifier.Notify(notify.Success("Login realizado com sucesso!", "Bem-vindo ao painel administrativo."))

	authed := c.api.WithSession(session)

	defer func() {
		if err := authed.Logout(context.WithoutCancel(ctx.Context)); err != nil {
			log.Warn().Err(err).Msg("failed to log out")

			return
		}

		c.notifier.Notify(notify.Success("Logout realizado", "Você foi desconectado com sucesso."))
	}()

	return fn(ctx.Context, authed)
}

// list prints the rows as a table, or the empty-state message when there are none.
func (c *commands) list(count int, empty string, render func()) {
	if count == 0 {
		fmt.Fprintln(c.out, empty)

		return
	}

	render()
}

func (c *commands) table(header string, rows func(w io.Writer)) {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	_ = w.Flush()
}

func requireID(ctx *cli.Context) (string, error) {
	id := ctx.Args().First()
	if id == "" {
		return "", ErrMissingID
	}

	return id, nil
}

// optional returns a pointer to the flag value when the flag was given.
func optional(ctx *cli.Context, name string) *string {
	if !ctx.IsSet(name) {
		return nil
	}

	value := ctx.String(name)

	return &value
}

func openFile(path string) (*os.File, string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", path, err)
	}

	return file, filepath.Base(path), nil
}
