package database

import (
	"errors"
	"fmt"
	"net/url"
)

// Config holds the connection profile for the relational store.
// It describes up to three authentication methods; Methods returns
// them in precedence order.
type Config struct {
	// DSN is an explicit driver connection string. When set it is the
	// first method attempted and is passed to the driver untouched.
	DSN string `mapstructure:"dsn" default:""`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// Name is the database name.
	Name string `mapstructure:"name" default:""`
	// Trusted enables a credential-less connection attempt (host
	// identity / socket auth), tried after the explicit DSN.
	Trusted bool `mapstructure:"trusted" default:"false"`
	// User is the database user for the basic fallback method.
	User string `mapstructure:"user" default:""`
	// Password is the database password for the basic fallback method.
	Password string `mapstructure:"password" default:""`
	// TimeoutSeconds is the connection setup and I/O timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Method is a single candidate authentication method: a name for
// diagnostics and the connection descriptor it produces.
type Method struct {
	Name string
	DSN  string
}

// Method names, in precedence order.
const (
	MethodDriver  = "driver"
	MethodTrusted = "trusted"
	MethodBasic   = "basic"
)

// ErrNoMethods indicates the profile configures no authentication method.
var ErrNoMethods = errors.New("connection profile configures no authentication method")

// Methods returns the configured authentication methods in precedence
// order: explicit DSN first, then trusted, then user+password last as
// the universal fallback.
func (c Config) Methods() ([]Method, error) {
	timeout := c.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	params := fmt.Sprintf("charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		timeout, timeout, timeout)

	var methods []Method

	if c.DSN != "" {
		methods = append(methods, Method{Name: MethodDriver, DSN: c.DSN})
	}

	if c.Trusted {
		dsn := fmt.Sprintf("tcp(%s:%d)/%s?%s", c.Host, c.Port, c.Name, params)
		methods = append(methods, Method{Name: MethodTrusted, DSN: dsn})
	}

	if c.User != "" {
		// Special characters in the password must be URL encoded in the DSN.
		userInfo := url.UserPassword(c.User, c.Password).String()
		dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?%s", userInfo, c.Host, c.Port, c.Name, params)
		methods = append(methods, Method{Name: MethodBasic, DSN: dsn})
	}

	if len(methods) == 0 {
		return nil, ErrNoMethods
	}
	return methods, nil
}
