// Inbox agent MCP server: triages unread mail into reply drafts and finds
// meeting slots, exposed through Model Context Protocol.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/inbox-agent/internal/auth"
	"github.com/hal9000y/inbox-agent/internal/draft"
	"github.com/hal9000y/inbox-agent/internal/gservice"
	"github.com/hal9000y/inbox-agent/internal/llm"
	"github.com/hal9000y/inbox-agent/internal/tool"
	"github.com/hal9000y/inbox-agent/internal/triage"
)

func main() {
	httpAddr := flag.String("http-addr", "localhost:0", "HTTP SERVER listen addr")
	oauthTokenFile := flag.String("oauth-token-file", "./data/inbox-agent-token.json", "Path to cache google oauth token, empty to avoid storing")
	oauthURLParam := flag.String("oauth-url", "", "OAuth URL")
	envFileParam := flag.String("env-file", "", "Path to env file")
	openaiModel := flag.String("openai-model", "", "OpenAI model override")
	enableStdio := flag.Bool("stdio", false, "Enable stdio transport for MCP (disables stdout logging)")
	logFile := flag.String("log-file", "", "Path to log file (only used with stdio transport, otherwise logs to stdout)")

	flag.Parse()

	log, persistLogs := setupLogger(enableStdio, logFile)
	defer persistLogs()

	ln := mustListen(httpAddr, log)
	config := mustCreateOauthCfg(ln.Addr().String(), envFileParam, oauthURLParam, log)

	if oauthTokenFile == nil {
		log.Fatal().Msg("-oauth-token-file must be provided")
	}
	tok, err := auth.NewToken(config, *oauthTokenFile, log)
	if err != nil {
		log.Fatal().Err(err).Msg("auth.NewToken failed")
	}

	defer func() {
		log.Info().Msg("persisting token if exists")
		if err := tok.Persist(); err != nil {
			log.Error().Err(err).Msg("tok.Persist failed")
		}
	}()

	authHTTP := auth.NewHTTPHandler(tok, log)

	mux := http.NewServeMux()
	mux.Handle("/oauth", authHTTP)

	gmailSvc := gservice.NewGMail(config, tok, log)
	calSvc := gservice.NewCalendar(config, tok, log)
	drafts := draft.NewManager(gmailSvc, log)

	openaiKey := os.Getenv("OPENAI_API_KEY")
	if openaiKey == "" {
		log.Fatal().Msg("env variable OPENAI_API_KEY must be set")
	}
	factory := llm.NewFactory(openai.NewClient(openaiKey), *openaiModel, log)

	runner := triage.New(func() triage.Session { return factory.NewSession() }, drafts, gmailSvc, log)

	srvMCP := tool.NewServer(gmailSvc, calSvc, drafts, runner)
	mcpHTTP := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server { return srvMCP }, nil)

	mux.Handle("/mcp", mcpHTTP)

	srv := &http.Server{
		Handler: mux,
	}

	shutdown := make(chan os.Signal, 1)

	signal.Notify(shutdown, syscall.SIGTERM, syscall.SIGINT)

	if _, err := tok.OAuthToken(); errors.Is(err, auth.ErrTokenNotSet) {
		openBrowser(config.RedirectURL, log)
	}

	stopHTTP, errHTTPCh := serveHTTP(srv, ln, log)
	defer stopHTTP()

	var errStdioCh <-chan error
	if *enableStdio {
		var stopStdio func()
		stopStdio, errStdioCh = serveStdio(srvMCP, log)
		defer stopStdio()
	}

	select {
	case err := <-errHTTPCh:
		log.Error().Err(err).Msg("http server error")
	case err := <-errStdioCh:
		log.Error().Err(err).Msg("stdio error")
	case <-shutdown:
		log.Info().Msg("shutdown signal received")
	}
}

func serveStdio(srv *mcp.Server, log zerolog.Logger) (func(), <-chan error) {
	errStdioCh := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer close(errStdioCh)
		log.Info().Msg("starting stdio transport")

		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
			errStdioCh <- fmt.Errorf("srv.Run failed: %w", err)
		}
	}()

	return func() {
		cancel()

		<-errStdioCh
		log.Info().Msg("stdio transport stopped")
	}, errStdioCh
}

func serveHTTP(srv *http.Server, ln net.Listener, log zerolog.Logger) (func(), <-chan error) {
	errHTTPCh := make(chan error, 1)
	go func() {
		defer close(errHTTPCh)

		log.Info().Str("addr", ln.Addr().String()).Msg("starting http server")

		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("srv.Serve failed: %w", err)
			log.Error().Err(err).Msg("http serve failed")
			errHTTPCh <- err
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("srv.Shutdown failed")
		}

		<-errHTTPCh
		log.Info().Msg("http server stopped")
	}, errHTTPCh
}

func mustListen(httpAddr *string, log zerolog.Logger) net.Listener {
	if httpAddr == nil {
		log.Fatal().Msg("-http-addr must be provided")
	}

	ln, err := net.Listen("tcp", *httpAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("net.Listen failed")
	}

	return ln
}

func mustCreateOauthCfg(lnAddr string, envFileParam, oauthURLParam *string, log zerolog.Logger) *oauth2.Config {
	if envFileParam != nil && *envFileParam != "" {
		if err := godotenv.Load(*envFileParam); err != nil {
			log.Fatal().Err(err).Msg("godotenv.Load failed")
		}
	}

	oauthClientID := os.Getenv("OAUTH_GOOGLE_CLIENT_ID")
	oauthClientSec := os.Getenv("OAUTH_GOOGLE_CLIENT_SECRET")

	if oauthClientID == "" || oauthClientSec == "" {
		log.Fatal().Msg("env variables OAUTH_GOOGLE_CLIENT_ID and OAUTH_GOOGLE_CLIENT_SECRET must be set")
	}

	oauthURL := fmt.Sprintf("http://%s/oauth", lnAddr)
	if oauthURLParam != nil && *oauthURLParam != "" {
		oauthURL = *oauthURLParam
	}

	return &oauth2.Config{
		ClientID:     oauthClientID,
		ClientSecret: oauthClientSec,
		RedirectURL:  oauthURL,
		Scopes: []string{
			gmail.GmailReadonlyScope,
			gmail.GmailComposeScope,
			gmail.GmailSendScope,
			gmail.GmailModifyScope,
			calendar.CalendarScope,
		},
		Endpoint: google.Endpoint,
	}
}

func setupLogger(enableStdio *bool, logFile *string) (zerolog.Logger, func()) {
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			panic(fmt.Errorf("failed to open log file: %w", err))
		}
		log := zerolog.New(f).With().Timestamp().Logger()

		return log, func() {
			if err := f.Close(); err != nil {
				fmt.Fprintln(os.Stderr, fmt.Errorf("f.Close failed: %w", err))
			}
		}
	}

	if *enableStdio {
		return zerolog.New(io.Discard), func() {}
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	return log, func() {}
}

func openBrowser(url string, log zerolog.Logger) {
	url = fmt.Sprintf("%s?redirect=1", url)
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}

	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("could not open browser automatically; copy and open the link manually")
	}
}
