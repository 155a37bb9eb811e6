package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"devhub/internal/config"
	"devhub/internal/domain"
	"devhub/internal/http/dto"
	"devhub/internal/http/middleware"
	"devhub/internal/model"
	"devhub/internal/queue/rabbitmq"
)

const requestTimeout = 10 * time.Second

type payloadFlags struct {
	kind    string
	title   string
	message string
	source  string
	link    string
}

func (f *payloadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.kind, "type", "t", domain.NotificationTypeInfo, "notification type: info, success, warning, error")
	cmd.Flags().StringVar(&f.title, "title", "", "notification title (required)")
	cmd.Flags().StringVarP(&f.message, "message", "m", "", "notification message")
	cmd.Flags().StringVar(&f.source, "source", "notifyctl", "producing system")
	cmd.Flags().StringVar(&f.link, "link", "", "link shown with the notification")
	_ = cmd.MarkFlagRequired("title")
}

func (f *payloadFlags) payload() (model.Payload, error) {
	p := model.Payload{
		Type:    f.kind,
		Title:   f.title,
		Message: f.message,
		Source:  f.source,
		Link:    f.link,
	}
	if err := domain.ValidatePayload(p); err != nil {
		return model.Payload{}, err
	}
	return p, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "notifyctl",
		Short:         "Send and inspect developer hub notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPublishCmd(), newPostCmd(), newListCmd(), newTokenCmd())
	return root
}

// newPublishCmd sends a payload through RabbitMQ; the server's consumer
// appends it.
func newPublishCmd() *cobra.Command {
	var flags payloadFlags
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a notification to the broker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.New()
			if cfg.RabbitMQURL == "" {
				return errors.New("RABBITMQ_URL is not set")
			}
			p, err := flags.payload()
			if err != nil {
				return err
			}
			body, err := json.Marshal(p)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()
			pub := rabbitmq.NewPublisher(cfg, zap.NewNop())
			if err := pub.Publish(ctx, body, cfg.RabbitPublishPrefix+"."+p.Type); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "queued")
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newPostCmd() *cobra.Command {
	var (
		flags  payloadFlags
		server string
	)
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create a notification over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := flags.payload()
			if err != nil {
				return err
			}
			body, err := json.Marshal(p)
			if err != nil {
				return err
			}
			var created model.Notification
			if err := do(cmd, http.MethodPost, endpoint(server, "/notifications"), body, http.StatusCreated, &created); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d\n", created.ID)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&server, "server", "s", "http://localhost:8080", "server base URL")
	return cmd
}

func newListCmd() *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the current notification list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var snap model.Snapshot
			if err := do(cmd, http.MethodGet, endpoint(server, "/notifications"), nil, http.StatusOK, &snap); err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tTYPE\tREAD\tTITLE\n")
			for _, n := range snap.Items {
				fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", n.ID, n.Payload.Type, n.Read, n.Payload.Title)
			}
			fmt.Fprintf(w, "\n%d unread\n", snap.Unread)
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&server, "server", "s", "http://localhost:8080", "server base URL")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token with JWT_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.New()
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			token, err := middleware.GenerateToken(cfg.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "notifyctl", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

func endpoint(server, path string) string {
	return strings.TrimRight(server, "/") + path
}

// do sends one JSON request, signing it when JWT_SECRET is set, and decodes
// the response into out.
func do(cmd *cobra.Command, method, url string, body []byte, wantStatus int, out any) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if secret := config.New().JWTSecret; secret != "" {
		token, err := middleware.GenerateToken(secret, "notifyctl", time.Minute)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != wantStatus {
		var apiErr dto.ErrorResponse
		if err := json.NewDecoder(res.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: %d %s", method, url, res.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, url, res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
