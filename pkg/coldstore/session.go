// Package coldstore is the facade over the wide-column authoritative
// tier. The statement set is fixed; the driver prepares each statement
// on first use and reuses it for the life of the session. DDL is managed
// outside the service.
package coldstore

import (
	"time"

	"github.com/gocql/gocql"

	"github.com/picogrid/convoy-tracker/pkg/config"
)

// defaultPageSize caps paged reads when the caller supplies no limit.
const defaultPageSize = 100

// Store owns the session. Safe for concurrent use; statements are
// immutable after startup.
type Store struct {
	session  *gocql.Session
	pageSize int
}

// New connects to the cluster and binds the configured keyspace.
func New(cfg config.ScyllaConfig) (*Store, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = cfg.Timeout
	if cluster.Timeout == 0 {
		cluster.Timeout = 5 * time.Second
	}
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, &Error{Kind: KindSession, Op: "connect", Err: err}
	}
	return &Store{session: session, pageSize: defaultPageSize}, nil
}

// Close tears down the session.
func (s *Store) Close() {
	s.session.Close()
}

// pageLimit returns the caller's limit, or the configured default when
// none was supplied.
func (s *Store) pageLimit(limit int) int {
	if limit <= 0 {
		return s.pageSize
	}
	return limit
}
