// Package consul registers the engagement service with HashiCorp Consul so the
// gateway can discover it. Registration is optional; when CONSUL_ADDR is unset
// the service runs standalone.
package consul

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	consulapi "github.com/hashicorp/consul/api"
)

// Client wraps the Consul API client
type Client struct {
	api *consulapi.Client
}

// NewClient creates a new Consul client. An ACL token is attached when
// CONSUL_TOKEN is set.
func NewClient(addr string) (*Client, error) {
	config := consulapi.DefaultConfig()
	config.Address = addr

	if token := os.Getenv("CONSUL_TOKEN"); token != "" {
		config.Token = token
	}

	client, err := consulapi.NewClient(config)
	if err != nil {
		return nil, err
	}

	return &Client{api: client}, nil
}

// ServiceConfig contains configuration for service registration
type ServiceConfig struct {
	ID      string
	Name    string
	Address string
	Port    int
	Tags    []string
	Check   *HealthCheck
}

// HealthCheck defines health check configuration
type HealthCheck struct {
	HTTP     string
	Interval string
	Timeout  string
}

// Register registers a service with Consul
func (c *Client) Register(cfg *ServiceConfig) error {
	registration := &consulapi.AgentServiceRegistration{
		ID:      cfg.ID,
		Name:    cfg.Name,
		Address: cfg.Address,
		Port:    cfg.Port,
		Tags:    cfg.Tags,
	}

	if cfg.Check != nil {
		registration.Check = &consulapi.AgentServiceCheck{
			HTTP:     cfg.Check.HTTP,
			Interval: cfg.Check.Interval,
			Timeout:  cfg.Check.Timeout,
		}
	}

	if err := c.api.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	return nil
}

// Deregister removes a service from Consul
func (c *Client) Deregister(serviceID string) error {
	if err := c.api.Agent().ServiceDeregister(serviceID); err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}

	return nil
}

// RegisterFromEnv registers this instance using CONSUL_ADDR, SERVICE_ADDR and
// PORT. It returns a deregister function for shutdown, or a no-op when Consul
// is not configured or registration fails. Registration failure is logged but
// never fatal.
func RegisterFromEnv(serviceName string, logger *slog.Logger) func() {
	addr := os.Getenv("CONSUL_ADDR")
	if addr == "" {
		return func() {}
	}

	client, err := NewClient(addr)
	if err != nil {
		logger.Warn("Consul client init failed, running unregistered", "error", err)
		return func() {}
	}

	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}
	serviceAddr := os.Getenv("SERVICE_ADDR")
	if serviceAddr == "" {
		serviceAddr = "localhost"
	}

	serviceID := fmt.Sprintf("%s-%d", serviceName, port)
	cfg := &ServiceConfig{
		ID:      serviceID,
		Name:    serviceName,
		Address: serviceAddr,
		Port:    port,
		Tags:    []string{"engagement", "api"},
		Check: &HealthCheck{
			HTTP:     fmt.Sprintf("http://%s:%d/health", serviceAddr, port),
			Interval: "10s",
			Timeout:  "3s",
		},
	}

	if err := client.Register(cfg); err != nil {
		logger.Warn("Consul registration failed, running unregistered", "error", err)
		return func() {}
	}
	logger.Info("Registered with Consul", "service_id", serviceID, "consul_addr", addr)

	return func() {
		if err := client.Deregister(serviceID); err != nil {
			logger.Warn("Consul deregistration failed", "error", err)
		}
	}
}
