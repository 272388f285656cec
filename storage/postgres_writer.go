package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"maps-scraper/models"
)

// PostgresWriter persists the geo-resolved dataset to a typed warehouse
// table.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS places (
			id                BIGSERIAL PRIMARY KEY,
			searched_query    TEXT NOT NULL,
			searched_channel  TEXT NOT NULL,
			searched_district TEXT NOT NULL,
			searched_state    TEXT NOT NULL,
			name              TEXT,
			detail_reference  TEXT,
			rating            DOUBLE PRECISION,
			category          TEXT,
			latitude          DOUBLE PRECISION,
			longitude         DOUBLE PRECISION,
			full_address      TEXT,
			phone_number      TEXT,
			postcode          TEXT,
			state             TEXT,
			district          TEXT,
			area              TEXT,
			scraped_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			extract_date      DATE NOT NULL DEFAULT CURRENT_DATE
		);

		CREATE INDEX IF NOT EXISTS idx_places_postcode ON places(postcode);
		CREATE INDEX IF NOT EXISTS idx_places_state    ON places(state);
		CREATE INDEX IF NOT EXISTS idx_places_district ON places(district);
		CREATE INDEX IF NOT EXISTS idx_places_channel  ON places(searched_channel);
	`)
	return err
}

// WritePlaces batch-appends the dataset. Runs accumulate; each extract
// carries its own scraped_at/extract_date.
func (pw *PostgresWriter) WritePlaces(places []*models.Place) error {
	const batchSize = 50
	for i := 0; i < len(places); i += batchSize {
		end := i + batchSize
		if end > len(places) {
			end = len(places)
		}
		if err := pw.insertBatch(places[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.Place) error {
	const cols = 17
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, p := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := 0; j < cols; j++ {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			p.SearchedQuery, p.SearchedChannel, p.SearchedDistrict, p.SearchedState,
			p.Name, p.DetailURL, p.Rating, p.Category, p.Latitude, p.Longitude,
			p.FullAddress, p.Phone, p.Postcode, p.State, p.District, p.Area,
			p.ScrapedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO places (
			searched_query, searched_channel, searched_district, searched_state,
			name, detail_reference, rating, category, latitude, longitude,
			full_address, phone_number, postcode, state, district, area,
			scraped_at
		)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves every stored place in insertion order.
func (pw *PostgresWriter) FetchAll() ([]*models.Place, error) {
	rows, err := pw.db.Query(`
		SELECT searched_query, searched_channel, searched_district, searched_state,
		       name, detail_reference, rating, category, latitude, longitude,
		       full_address, phone_number, postcode, state, district, area,
		       scraped_at
		FROM places
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var places []*models.Place
	for rows.Next() {
		p := &models.Place{}
		var name, detailURL, category, fullAddress, phone sql.NullString
		var postcode, state, district, area sql.NullString
		var rating, latitude, longitude sql.NullFloat64

		if err := rows.Scan(
			&p.SearchedQuery, &p.SearchedChannel, &p.SearchedDistrict, &p.SearchedState,
			&name, &detailURL, &rating, &category, &latitude, &longitude,
			&fullAddress, &phone, &postcode, &state, &district, &area,
			&p.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}

		p.Name = nullStr(name)
		p.DetailURL = nullStr(detailURL)
		p.Rating = nullFloat(rating)
		p.Category = nullStr(category)
		p.Latitude = nullFloat(latitude)
		p.Longitude = nullFloat(longitude)
		p.FullAddress = nullStr(fullAddress)
		p.Phone = nullStr(phone)
		p.Postcode = nullStr(postcode)
		p.State = nullStr(state)
		p.District = nullStr(district)
		p.Area = nullStr(area)

		places = append(places, p)
	}
	return places, rows.Err()
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
