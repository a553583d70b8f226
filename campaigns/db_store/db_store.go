package db_store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/golang/glog"
	_ "github.com/lib/pq"

	"github.com/KishanRaj0007/rtb-engine/campaigns"
)

const campaignQuery = `SELECT id, advertiser_id, budget, targeting_geo, targeting_os, bid_price FROM campaigns WHERE advertiser_id = $1 ORDER BY id`

// ConnString builds a lib/pq connection string from the individual settings.
func ConnString(host string, port int, database string, username string, password string) string {
	uri := ""
	if host != "" {
		uri += fmt.Sprintf("host=%s ", host)
	}
	if port > 0 {
		uri += fmt.Sprintf("port=%d ", port)
	}
	if username != "" {
		uri += fmt.Sprintf("user=%s ", username)
	}
	if password != "" {
		uri += fmt.Sprintf("password=%s ", password)
	}
	if database != "" {
		uri += fmt.Sprintf("dbname=%s ", database)
	}
	return uri + "sslmode=disable"
}

// NewStore returns a campaigns.Store backed by Postgres.
func NewStore(db *sql.DB) *Store {
	if db == nil {
		glog.Fatalf("The Postgres campaign store requires a database connection. Please report this as a bug.")
	}
	return &Store{db: db}
}

// Store fetches campaigns from Postgres. This should be instantiated through
// the NewStore() function.
type Store struct {
	db *sql.DB
}

func (s *Store) FindByAdvertiserID(ctx context.Context, advertiserID string) ([]campaigns.Campaign, error) {
	rows, err := s.db.QueryContext(ctx, campaignQuery, advertiserID)
	if err != nil {
		return nil, fmt.Errorf("error reading campaigns for advertiser %s: %w", advertiserID, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			glog.Errorf("error closing campaign rows: %v", err)
		}
	}()

	var found []campaigns.Campaign
	for rows.Next() {
		var c campaigns.Campaign
		if err := rows.Scan(&c.ID, &c.AdvertiserID, &c.Budget, &c.TargetingGeo, &c.TargetingOS, &c.BidPrice); err != nil {
			return nil, err
		}
		found = append(found, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return found, nil
}

// Seed clears the campaigns table and loads the given set in one transaction.
// Row order becomes insertion order, which is the order first-match selection
// later sees. Any failure rolls the whole load back; the caller should treat
// that as fatal rather than run with a partially loaded store.
func (s *Store) Seed(ctx context.Context, seed []campaigns.Campaign) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting campaign seed transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM campaigns"); err != nil {
		tx.Rollback()
		return fmt.Errorf("error clearing campaigns table: %w", err)
	}

	const insert = `INSERT INTO campaigns (advertiser_id, budget, targeting_geo, targeting_os, bid_price) VALUES ($1, $2, $3, $4, $5)`
	for _, c := range seed {
		if _, err := tx.ExecContext(ctx, insert, c.AdvertiserID, c.Budget, c.TargetingGeo, c.TargetingOS, c.BidPrice); err != nil {
			tx.Rollback()
			return fmt.Errorf("error inserting campaign for advertiser %s: %w", c.AdvertiserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing campaign seed: %w", err)
	}
	glog.Infof("Seeded %d campaigns into Postgres", len(seed))
	return nil
}
