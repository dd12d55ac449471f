package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"dupescan/internal/client"
	"dupescan/internal/config"
)

type commandContext struct {
	addressFlag *string
	configFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(addressFlag, configFlag *string) *commandContext {
	return &commandContext{
		addressFlag: addressFlag,
		configFlag:  configFlag,
	}
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
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) apiAddress() string {
	if c.addressFlag != nil && strings.TrimSpace(*c.addressFlag) != "" {
		return strings.TrimSpace(*c.addressFlag)
	}
	if cfg, err := c.ensureConfig(); err == nil && cfg != nil {
		return cfg.Paths.APIBind
	}
	return ""
}

func (c *commandContext) dialClient() (*client.Client, error) {
	address := c.apiAddress()
	cl, err := client.New(address)
	if err != nil {
		return nil, fmt.Errorf("resolve daemon address: %w", err)
	}
	return cl, nil
}

func (c *commandContext) withClient(fn func(*client.Client) error) error {
	cl, err := c.dialClient()
	if err != nil {
		return err
	}
	if err := fn(cl); err != nil {
		if client.IsDaemonUnavailable(err) {
			return fmt.Errorf("connect to daemon at %s: %w; start it with `dupescan daemon`", c.apiAddress(), err)
		}
		return err
	}
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
