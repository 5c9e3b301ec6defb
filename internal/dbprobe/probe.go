/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package dbprobe checks that an externally provided database server
// accepts the admin credentials it was declared with.
package dbprobe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
)

// ErrUnsupportedVendor is returned for vendors that cannot be probed.
var ErrUnsupportedVendor = errors.New("connectivity check not supported for vendor")

// DefaultTimeout bounds a probe that does not set its own.
const DefaultTimeout = 10 * time.Second

// Target is the database server to probe.
type Target struct {
	Vendor   entandov1alpha1.DbmsVendor
	Host     string
	Port     int32
	Database string
	Username string
	Password string
	Timeout  time.Duration
}

func (t Target) address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(int(t.Port)))
}

func (t Target) timeout() time.Duration {
	if t.Timeout <= 0 {
		return DefaultTimeout
	}
	return t.Timeout
}

// Prober checks database connectivity.
type Prober interface {
	Probe(ctx context.Context, target Target) error
}

// pgConn is the part of *pgx.Conn a probe needs.
type pgConn interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Probe connects with pgx for PostgreSQL and with database/sql for MySQL.
type Probe struct {
	connectPostgres func(ctx context.Context, connString string) (pgConn, error)
	openMySQL       func(dsn string) (*sql.DB, error)
}

// New returns a Probe talking to real servers.
func New() *Probe {
	return &Probe{
		connectPostgres: func(ctx context.Context, connString string) (pgConn, error) {
			return pgx.Connect(ctx, connString)
		},
		openMySQL: func(dsn string) (*sql.DB, error) {
			return sql.Open("mysql", dsn)
		},
	}
}

// Probe opens a connection to target and pings it.
func (p *Probe) Probe(ctx context.Context, target Target) error {
	ctx, cancel := context.WithTimeout(ctx, target.timeout())
	defer cancel()

	switch target.Vendor {
	case entandov1alpha1.DbmsPostgreSQL:
		return p.probePostgres(ctx, target)
	case entandov1alpha1.DbmsMySQL:
		return p.probeMySQL(ctx, target)
	default:
		return fmt.Errorf("%w %s", ErrUnsupportedVendor, target.Vendor)
	}
}

// PostgresConnString builds a pgx connection URL for target.
func PostgresConnString(target Target) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(target.Username, target.Password),
		Host:   target.address(),
		Path:   "/" + target.Database,
	}
	q := url.Values{}
	q.Set("sslmode", "prefer")
	q.Set("connect_timeout", strconv.Itoa(int(target.timeout().Seconds())))
	u.RawQuery = q.Encode()
	return u.String()
}

func (p *Probe) probePostgres(ctx context.Context, target Target) error {
	conn, err := p.connectPostgres(ctx, PostgresConnString(target))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", target.address(), err)
	}
	defer conn.Close(context.WithoutCancel(ctx))

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping %s: %w", target.address(), err)
	}
	return nil
}

// MySQLDSN builds a go-sql-driver DSN for target.
func MySQLDSN(target Target) string {
	cfg := mysql.NewConfig()
	cfg.User = target.Username
	cfg.Passwd = target.Password
	cfg.Net = "tcp"
	cfg.Addr = target.address()
	cfg.DBName = target.Database
	cfg.Timeout = target.timeout()
	return cfg.FormatDSN()
}

func (p *Probe) probeMySQL(ctx context.Context, target Target) error {
	db, err := p.openMySQL(MySQLDSN(target))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", target.address(), err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping %s: %w", target.address(), err)
	}
	return nil
}
