package main

import (
	"fmt"
	"log"
	"time"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/golog"

	"github.com/edgekit/aflib"
	"github.com/edgekit/aflib/profile"
	"github.com/edgekit/aflib/rules"
	"github.com/edgekit/aflib/transport/ipc"
)

const connectWait = 5 * time.Second

// session is a running attribute client over the hub socket, assembled from
// the loaded configuration.
type session struct {
	client    *aflib.Client
	transport *ipc.Transport
	profile   *profile.Profile
}

// loadProfile resolves the configured profile. The built-in default path is
// allowed to be absent; an explicitly configured one is not.
func loadProfile(cfg config) (*profile.Profile, error) {
	if cfg.ProfilePath == "" {
		return nil, nil
	}

	p, err := profile.Load(cfg.ProfilePath)
	if err != nil {
		if cfg.ProfilePath == profile.DefaultPath {
			return nil, nil
		}
		return nil, err
	}

	return p, nil
}

// dialSession connects to the hub service and waits for the session to come
// up. Set requests from the hub are accepted unconditionally unless a rules
// file is configured.
func dialSession(cfg config, nh aflib.NotifyHandler) (*session, error) {
	p, err := loadProfile(cfg)
	if err != nil {
		return nil, err
	}

	var sh aflib.SetHandler = aflib.SetHandlerFunc(func(uint16, []byte) bool { return true })

	if cfg.RulesPath != "" {
		engine := &rules.Engine{}
		if err := engine.LoadFile(cfg.RulesPath); err != nil {
			return nil, err
		}

		sh = rules.NewSetHandler(engine, p, logwrap.New(golog.Wrap(log.Default())))
	}

	if nh == nil {
		nh = aflib.NotifyHandlerFunc(func(uint16, []byte) {})
	}

	tr := ipc.New(cfg.SocketPath)

	c, err := aflib.New(tr, sh, nh)
	if err != nil {
		return nil, err
	}

	if cfg.DebugLevel > 0 {
		c.WithGoLogger(log.Default())
		c.SetDebugLevel(cfg.DebugLevel)
		tr.WithGoLogger(log.Default())
	}

	if p != nil {
		c.SetProfile(p)
	}

	up := make(chan struct{}, 1)
	c.SetConnectHandler(aflib.ConnectHandlerFunc(func(connected bool) {
		if connected {
			select {
			case up <- struct{}{}:
			default:
			}
		}
	}))

	if err := tr.Start(); err != nil {
		return nil, err
	}

	if err := c.Start(); err != nil {
		tr.Stop()
		return nil, err
	}

	select {
	case <-up:
	case <-time.After(connectWait):
		c.Stop()
		tr.Stop()
		return nil, fmt.Errorf("timed out waiting for the hub service connection")
	}

	return &session{client: c, transport: tr, profile: p}, nil
}

func (s *session) close() {
	s.client.Stop()
	s.transport.Stop()
}
