package config

import "fmt"

type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// BlobConfig configures the object store holding certificate material.
type BlobConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type PushConfig struct {
	// Mode selects the APNs environment: "production" or "development".
	Mode string `mapstructure:"mode"`
}

// WalletConfig carries the device-protocol settings.
type WalletConfig struct {
	// AuthToken is the shared secret devices present as
	// "Authorization: ApplePass <token>" on write calls.
	AuthToken string `mapstructure:"auth_token"`
	// DefaultTenantKey names the certificate record used when a tenant
	// has no bundle of its own.
	DefaultTenantKey string `mapstructure:"default_tenant_key"`
	// TeamIdentifier and OrganizationName are stamped into every pass.
	TeamIdentifier   string `mapstructure:"team_identifier"`
	OrganizationName string `mapstructure:"organization_name"`
}

type AdminConfig struct {
	// OperatorKeyHash is the bcrypt hash of the operator key exchanged
	// for an admin JWT.
	OperatorKeyHash string `mapstructure:"operator_key_hash"`
	JWTSecret       string `mapstructure:"jwt_secret"`
	TokenExpMinutes int    `mapstructure:"token_exp_minutes"`
}
