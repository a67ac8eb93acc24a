package config

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	WriteModeCompensating  = "compensating"
	WriteModeTransactional = "transactional"
)

type StorageConfig interface {
	GetDBDriver() string
	GetDBDSN() string
	GetCampaignWriteMode() string
}

type Storage struct {
	Driver            string `env:"DB_DRIVER" envDefault:"sqlite"`
	DSN               string `env:"DB_DSN" envDefault:"./data/dmtool.db"`
	CampaignWriteMode string `env:"CAMPAIGN_WRITE_MODE" envDefault:"compensating"`
}

var _ StorageConfig = Storage{}

func (s Storage) GetDBDriver() string {
	return strings.ToLower(s.Driver)
}

func (s Storage) GetDBDSN() string {
	return s.DSN
}

func (s Storage) GetCampaignWriteMode() string {
	return strings.ToLower(s.CampaignWriteMode)
}

func (s Storage) validate() error {
	switch s.GetDBDriver() {
	case DriverSQLite, DriverPostgres:
	default:
		return errors.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, s.Driver)
	}
	switch s.GetCampaignWriteMode() {
	case WriteModeCompensating, WriteModeTransactional:
	default:
		return errors.Errorf("CAMPAIGN_WRITE_MODE must be %q or %q, got %q", WriteModeCompensating, WriteModeTransactional, s.CampaignWriteMode)
	}
	if strings.TrimSpace(s.DSN) == "" {
		return errors.New("DB_DSN must not be empty")
	}
	return nil
}
