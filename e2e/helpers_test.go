package e2e

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"devhub/internal/archive"
	"devhub/internal/config"
	httpserver "devhub/internal/http"
	"devhub/internal/http/controller"
	"devhub/internal/metrics"
	"devhub/internal/queue"
	"devhub/internal/repository"
	"devhub/internal/service/notify"
	"devhub/internal/store/memory"
)

type noopPublisher struct{}

func (n *noopPublisher) Publish(context.Context, []byte, string) error {
	return nil
}

type stack struct {
	server *httptest.Server
	svc    *notify.Service
	worker *archive.Worker
}

func ginTestMode() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		HTTPAddr:             ":0",
		NotificationCapacity: 50,
		SSEHeartbeat:         5 * time.Second,
		HistoryLimit:         10,
		ArchiveBuffer:        64,
		RabbitPublishPrefix:  "notification",
		OTELServiceName:      "devhub-e2e",
	}
}

func newStack(t *testing.T, cfg *config.Config, repo repository.ArchiveRepository, pub queue.Publisher) *stack {
	t.Helper()
	ginTestMode()

	logger := zap.NewNop()
	if repo == nil {
		repo = memory.New(logger)
	}
	if pub == nil {
		pub = &noopPublisher{}
	}
	m := metrics.New()
	worker := archive.NewWorker(cfg, repo, m, logger)
	svc := notify.NewService(cfg, repo, worker, m, logger)
	handler := controller.NewHandler(cfg, svc, logger, pub)
	server := httptest.NewServer(httpserver.NewRouter(handler, cfg, m, logger))
	t.Cleanup(func() {
		server.Close()
		svc.Close()
	})
	return &stack{server: server, svc: svc, worker: worker}
}

// drainArchive runs the worker to completion over what eviction queued.
func (s *stack) drainArchive() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.worker.Run(ctx)
}

func postJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func decode(t *testing.T, res *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(res.Body).Decode(out))
}

type sseFrame struct {
	id    string
	event string
	data  string
}

// readSSEFrame returns the next event frame, skipping comment heartbeats.
func readSSEFrame(reader *bufio.Reader, timeout time.Duration) (sseFrame, error) {
	type result struct {
		frame sseFrame
		err   error
	}
	ch := make(chan result, 1)

	go func() {
		var frame sseFrame
		var dataLines []string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				ch <- result{sseFrame{}, err}
				return
			}
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				if len(dataLines) > 0 {
					frame.data = strings.Join(dataLines, "\n")
					ch <- result{frame, nil}
					return
				}
				continue
			}
			if strings.HasPrefix(line, ":") {
				continue
			}
			key, value, _ := strings.Cut(line, ":")
			value = strings.TrimSpace(value)
			switch key {
			case "id":
				frame.id = value
			case "event":
				frame.event = value
			case "data":
				dataLines = append(dataLines, value)
			}
		}
	}()

	select {
	case res := <-ch:
		return res.frame, res.err
	case <-time.After(timeout):
		return sseFrame{}, context.DeadlineExceeded
	}
}
