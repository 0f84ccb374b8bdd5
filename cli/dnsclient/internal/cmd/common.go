package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/asokol123/yggdrasil-dns/application"
	clientapp "github.com/asokol123/yggdrasil-dns/application/client"
	"github.com/asokol123/yggdrasil-dns/crypto/sign"
	"github.com/asokol123/yggdrasil-dns/protocol"
	"github.com/asokol123/yggdrasil-dns/protocol/client"
	"github.com/spf13/cobra"
)

const configMissingUsage = `
Couldn't load the client's config file.

To create a valid config, run
  dnsclient init
this creates a config.toml that points at private.pem and public.pem
in the same directory.

The client looks for a file called 'config.toml' in its current working
directory. If you prefer the config file to be named or stored somewhere
different you can specify where to look for it with the --config flag.
`

// loadConfig reads the config file named by --config and applies the
// global flag overrides. A missing config.toml at the default location
// falls back to defaults; an explicitly named file must exist.
func loadConfig(cmd *cobra.Command) (*clientapp.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	conf := clientapp.NewConfig("", "toml")
	if _, err := os.Stat(file); err == nil || cmd.Flags().Changed("config") {
		if err := conf.Load(file, "toml"); err != nil {
			return nil, fmt.Errorf("%v\n%s", err, configMissingUsage)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		conf.Endpoint, _ = flags.GetString("endpoint")
	}
	if flags.Changed("timeout") {
		conf.Timeout.Duration, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("pow-zeros") {
		conf.PowZeros, _ = flags.GetInt("pow-zeros")
	}
	if flags.Changed("workers") {
		conf.Workers, _ = flags.GetInt("workers")
	}
	if debug, _ := flags.GetBool("debug"); debug {
		logger := *conf.Logger
		logger.Environment = "development"
		conf.Logger = &logger
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// A session holds what the commands of one invocation share: the
// configuration, the logger, the dispatcher and, once needed, the
// credential and the lookup cache.
type session struct {
	conf       *clientapp.Config
	logger     *application.Logger
	dispatcher *clientapp.Dispatcher
	strict     bool
	out        io.Writer

	credential sign.Credential
	cache      *clientapp.SiteCache
}

func newSession(cmd *cobra.Command) (*session, error) {
	conf, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := application.NewLogger(conf.Logger)
	if err != nil {
		return nil, err
	}
	if conf.GetPath() == "" {
		logger.Debug("No config file, using defaults")
	} else {
		logger.Debug("Loaded config", "path", conf.GetPath())
	}
	strict, _ := cmd.Flags().GetBool("strict")
	return &session{
		conf:   conf,
		logger: logger,
		dispatcher: clientapp.NewDispatcher(conf.Endpoint, conf.Timeout.Duration,
			clientapp.WithPreflightDifficulty(conf.PowZeros),
			clientapp.WithLogger(logger)),
		strict: strict,
		out:    cmd.OutOrStdout(),
	}, nil
}

func (s *session) close() {
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Warn("Closing lookup cache", "error", err)
		}
	}
	s.logger.Sync()
}

// credentialFor loads the configured credential the first time a
// command that needs one is built.
func (s *session) credentialFor(cmd protocol.Command) (sign.Credential, error) {
	if cmd.Auth() == protocol.AuthNone {
		return nil, nil
	}
	if s.credential == nil {
		cred, err := clientapp.LoadCredential(s.conf)
		if err != nil {
			return nil, err
		}
		s.credential = cred
	}
	return s.credential, nil
}

// siteCache opens the lookup cache the first time it is needed. It
// returns nil if caching is disabled.
func (s *session) siteCache() (*clientapp.SiteCache, error) {
	if s.conf.CachePath == "" {
		return nil, nil
	}
	if s.cache == nil {
		cache, err := clientapp.OpenSiteCache(s.conf.ResolvedPath(s.conf.CachePath))
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}
	return s.cache, nil
}

// execute builds, mines and sends one request.
func (s *session) execute(ctx context.Context, cmd protocol.Command,
	fields protocol.Params) (*protocol.Response, error) {
	cred, err := s.credentialFor(cmd)
	if err != nil {
		return nil, err
	}
	builder := client.NewBuilder(cred,
		client.WithDifficulty(s.conf.PowZeros),
		client.WithWorkers(s.conf.Workers))

	s.logger.Debug("Mining", "command", cmd, "difficulty", s.conf.PowZeros,
		"workers", s.conf.Workers)
	env, err := builder.Build(ctx, cmd, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Mined request", "command", cmd, "nonce", env.Nonce(),
		"digest", env.Digest, "iterations", env.Iterations, "elapsed", env.MiningTime)
	if env.MiningTime > protocol.FreshnessWindow {
		s.logger.Warn("Mining took longer than the registry accepts timestamps for; the request will likely be rejected as stale",
			"elapsed", env.MiningTime, "window", protocol.FreshnessWindow)
	}

	res, err := s.dispatcher.Dispatch(ctx, env)
	if err != nil {
		return nil, err
	}
	if res.Site != nil {
		s.remember(fields, res.Site)
	}
	return res, nil
}

func (s *session) remember(fields protocol.Params, rec *protocol.SiteRecord) {
	site, _ := fields.String(protocol.FieldSite)
	cache, err := s.siteCache()
	if err != nil {
		s.logger.Warn("Opening lookup cache", "error", err)
		return
	}
	if cache == nil {
		return
	}
	if err := cache.Put(site, rec); err != nil {
		s.logger.Warn("Caching lookup", "site", site, "error", err)
	}
}

// report prints the registry's answer. With --strict a non-success
// answer is also returned as an error.
func (s *session) report(res *protocol.Response) error {
	fmt.Fprintln(s.out, "Status:", statusLine(res))
	fmt.Fprintln(s.out, "Response:", string(res.Body))
	if res.Site != nil {
		fmt.Fprintln(s.out, "Address:", res.Site.Address)
	}
	if err := res.Err(); err != nil && s.strict {
		return err
	}
	return nil
}

func statusLine(res *protocol.Response) string {
	if res.StatusText != "" {
		return res.StatusText
	}
	return fmt.Sprint(res.Status)
}

// runRequest is the body of the one-shot request commands.
func runRequest(cmd *cobra.Command, pcmd protocol.Command, fields protocol.Params) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	res, err := s.execute(cmd.Context(), pcmd, fields)
	if err != nil {
		return err
	}
	return s.report(res)
}
