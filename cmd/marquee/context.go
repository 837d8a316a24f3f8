package main

import (
	"strings"
	"sync"
	"time"

	"marquee/internal/amc"
	"marquee/internal/config"
	"marquee/internal/messaging"
	"marquee/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore runs fn against an open store and closes it afterwards.
func (c *commandContext) withStore(fn func(*config.Config, *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cfg, st)
}

func (c *commandContext) catalogClient() (*amc.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return amc.New(cfg.Catalog.VendorKey, cfg.Catalog.BaseURL,
		amc.WithTimeout(time.Duration(cfg.Catalog.RequestTimeout)*time.Second))
}

func (c *commandContext) messenger() (messaging.Messenger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return messaging.NewTelegram(cfg)
}
