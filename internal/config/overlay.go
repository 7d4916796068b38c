package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the console reads (EDUDESK_API_URL, ...).
const EnvPrefix = "EDUDESK"

// flagKeys maps config keys to the persistent CLI flags that can override them.
var flagKeys = map[string]string{
	"api_url": "api-url",
	"timeout": "timeout",
	"output":  "output",
	"profile": "profile",
}

// LoadEnvFiles loads .env style files into the process environment. Missing
// files are skipped and variables already set are left untouched.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", p, err)
		}
	}
	return nil
}

// Overlay applies environment variables and changed flags on top of cfg.
// Precedence is flags, then EDUDESK_* variables, then whatever cfg already holds.
func Overlay(cfg *ConsoleConfig, flags *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	setString(v, "api_url", &cfg.APIURL)
	if v.IsSet("timeout") {
		d := v.GetDuration("timeout")
		if d <= 0 {
			return fmt.Errorf("invalid timeout %q", v.GetString("timeout"))
		}
		cfg.Timeout = d
	}
	if v.IsSet("output") {
		cfg.Output = OutputFormat(v.GetString("output"))
	}
	setString(v, "profile", &cfg.Profile)
	if v.IsSet("session_store") {
		cfg.SessionStore = SessionStoreKind(v.GetString("session_store"))
	}

	setString(v, "redis.addr", &cfg.Redis.Addr)
	setString(v, "redis.password", &cfg.Redis.Password)
	if v.IsSet("redis.db") {
		cfg.Redis.DB = v.GetInt("redis.db")
	}
	setString(v, "redis.key_prefix", &cfg.Redis.KeyPrefix)
	if v.IsSet("redis.ttl") {
		cfg.Redis.TTL = v.GetDuration("redis.ttl")
	}

	setString(v, "proxy.http_proxy", &cfg.Proxy.HTTPProxy)
	setString(v, "proxy.https_proxy", &cfg.Proxy.HTTPSProxy)
	setString(v, "proxy.socks5_proxy", &cfg.Proxy.SOCKS5Proxy)
	setString(v, "proxy.no_proxy", &cfg.Proxy.NoProxy)

	setString(v, "metrics.pushgateway_url", &cfg.Metrics.PushgatewayURL)
	setString(v, "metrics.job", &cfg.Metrics.Job)

	return nil
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}
