package plants

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"planthub/pkg/models"
)

// ErrNotFound is returned by GetByName when no plant has that name.
var ErrNotFound = errors.New("plant not found")

// Repo is the durable store for canonical plants. Upsert replaces the
// whole record atomically: the plants row, its category tags and its
// weather row move together in one transaction, so readers never see a
// half-replaced plant.
type Repo struct {
	DB *sql.DB
}

type SearchQuery struct {
	Q        string // substring over name / common names / description
	Category string // optional category filter
	Limit    int
}

type Stats struct {
	TotalPlants       int            `json:"total_plants"`
	Categories        map[string]int `json:"categories"`
	PlantsWithWeather int            `json:"plants_with_weather_data"`
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Upsert writes p keyed by scientific name (case-insensitive). An
// existing record is fully replaced, never merged: merging happens
// upstream in the collector. Returns the row id.
func (r *Repo) Upsert(ctx context.Context, p *models.Plant) (int64, error) {
	if strings.TrimSpace(p.ScientificName) == "" {
		return 0, fmt.Errorf("upsert: empty scientific name")
	}
	// zero tags is unreachable when the collector did its job
	if len(p.Categories) == 0 {
		return 0, fmt.Errorf("upsert %s: no category tags", p.ScientificName)
	}

	commonNames, err := json.Marshal(p.CommonNames)
	if err != nil {
		return 0, fmt.Errorf("marshal common_names for %s: %w", p.ScientificName, err)
	}
	care, err := json.Marshal(p.Care)
	if err != nil {
		return 0, fmt.Errorf("marshal care for %s: %w", p.ScientificName, err)
	}
	sources, err := json.Marshal(p.Sources)
	if err != nil {
		return 0, fmt.Errorf("marshal sources for %s: %w", p.ScientificName, err)
	}
	imageURLs, err := json.Marshal(p.ImageURLs)
	if err != nil {
		return 0, fmt.Errorf("marshal image_urls for %s: %w", p.ScientificName, err)
	}

	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO plants (scientific_name, common_names, family, genus, species,
		                    description, care_instructions, sources, image_urls, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(scientific_name) DO UPDATE SET
		  scientific_name = excluded.scientific_name,
		  common_names = excluded.common_names,
		  family = excluded.family,
		  genus = excluded.genus,
		  species = excluded.species,
		  description = excluded.description,
		  care_instructions = excluded.care_instructions,
		  sources = excluded.sources,
		  image_urls = excluded.image_urls,
		  last_updated = excluded.last_updated
	`,
		p.ScientificName, string(commonNames), p.Family, p.Genus, p.Species,
		p.Description, string(care), string(sources), string(imageURLs), updated,
	); err != nil {
		return 0, fmt.Errorf("exec upsert for %s: %w", p.ScientificName, err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM plants WHERE scientific_name = ?`, p.ScientificName,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("resolve id for %s: %w", p.ScientificName, err)
	}

	// replace dependent rows wholesale so no stale tag or range survives
	if _, err := tx.ExecContext(ctx, `DELETE FROM plant_categories WHERE plant_id = ?`, id); err != nil {
		return 0, fmt.Errorf("clear categories for %s: %w", p.ScientificName, err)
	}
	for _, tag := range p.Categories {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO plant_categories (plant_id, category, subcategory)
			VALUES (?, ?, ?)
		`, id, tag.Category, tag.Subcategory); err != nil {
			return 0, fmt.Errorf("insert category for %s: %w", p.ScientificName, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM plant_weather WHERE plant_id = ?`, id); err != nil {
		return 0, fmt.Errorf("clear weather for %s: %w", p.ScientificName, err)
	}
	if w := p.Weather; w != nil {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO plant_weather
			(plant_id, temperature_min, temperature_max, humidity_min, humidity_max,
			 sunlight_hours_min, sunlight_hours_max, rainfall_min, rainfall_max,
			 hardiness_zone_min, hardiness_zone_max)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			id, w.TemperatureMin, w.TemperatureMax, w.HumidityMin, w.HumidityMax,
			w.SunlightHoursMin, w.SunlightHoursMax, w.RainfallMin, w.RainfallMax,
			w.HardinessZoneMin, w.HardinessZoneMax,
		); err != nil {
			return 0, fmt.Errorf("insert weather for %s: %w", p.ScientificName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return id, nil
}

// GetByName looks a plant up case-insensitively.
func (r *Repo) GetByName(ctx context.Context, scientificName string) (*models.Plant, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, scientific_name, common_names, family, genus, species,
		       description, care_instructions, sources, image_urls, last_updated
		FROM plants
		WHERE scientific_name = ?
	`, scientificName)

	p, err := scanPlant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan getByName: %w", err)
	}

	if err := r.attachDetails(ctx, []*models.Plant{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// Search matches q case-insensitively against scientific name, common
// names and description, optionally filtered by category, ordered by
// scientific name ascending.
func (r *Repo) Search(ctx context.Context, q SearchQuery) ([]*models.Plant, error) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	sqlStr := `
		SELECT id, scientific_name, common_names, family, genus, species,
		       description, care_instructions, sources, image_urls, last_updated
		FROM plants
		WHERE (LOWER(scientific_name) LIKE ? OR LOWER(common_names) LIKE ? OR LOWER(description) LIKE ?)
	`
	kw := "%" + strings.ToLower(strings.TrimSpace(q.Q)) + "%"
	args := []any{kw, kw, kw}

	if strings.TrimSpace(q.Category) != "" {
		sqlStr += ` AND EXISTS (
			SELECT 1 FROM plant_categories pc
			WHERE pc.plant_id = plants.id AND pc.category = ?
		)`
		args = append(args, strings.TrimSpace(q.Category))
	}

	sqlStr += ` ORDER BY scientific_name ASC LIMIT ?`
	args = append(args, limit)

	return r.queryPlants(ctx, sqlStr, args...)
}

// ByCategory returns the plants carrying a category tag.
func (r *Repo) ByCategory(ctx context.Context, category string, limit int) ([]*models.Plant, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	return r.queryPlants(ctx, `
		SELECT DISTINCT p.id, p.scientific_name, p.common_names, p.family, p.genus, p.species,
		       p.description, p.care_instructions, p.sources, p.image_urls, p.last_updated
		FROM plants p
		JOIN plant_categories pc ON p.id = pc.plant_id
		WHERE pc.category = ?
		ORDER BY p.scientific_name ASC
		LIMIT ?
	`, category, limit)
}

// All returns every plant ordered by scientific name; used by the index
// builder and export documents.
func (r *Repo) All(ctx context.Context) ([]*models.Plant, error) {
	return r.queryPlants(ctx, `
		SELECT id, scientific_name, common_names, family, genus, species,
		       description, care_instructions, sources, image_urls, last_updated
		FROM plants
		ORDER BY scientific_name ASC
	`)
}

func (r *Repo) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Categories: make(map[string]int)}

	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM plants`).Scan(&stats.TotalPlants); err != nil {
		return nil, fmt.Errorf("stats total: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT category, COUNT(DISTINCT plant_id)
		FROM plant_categories
		GROUP BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("stats categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("stats category scan: %w", err)
		}
		stats.Categories[cat] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats rows: %w", err)
	}

	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM plant_weather`).Scan(&stats.PlantsWithWeather); err != nil {
		return nil, fmt.Errorf("stats weather: %w", err)
	}

	return stats, nil
}

func (r *Repo) queryPlants(ctx context.Context, sqlStr string, args ...any) ([]*models.Plant, error) {
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("plants query: %w", err)
	}
	defer rows.Close()

	var out []*models.Plant
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, fmt.Errorf("plants scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("plants rows: %w", err)
	}

	if err := r.attachDetails(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlant(row rowScanner) (*models.Plant, error) {
	var (
		p           models.Plant
		commonNames sql.NullString
		family      sql.NullString
		genus       sql.NullString
		species     sql.NullString
		description sql.NullString
		care        sql.NullString
		sources     sql.NullString
		imageURLs   sql.NullString
		updated     sql.NullTime
	)

	if err := row.Scan(
		&p.ID, &p.ScientificName, &commonNames, &family, &genus, &species,
		&description, &care, &sources, &imageURLs, &updated,
	); err != nil {
		return nil, err
	}

	p.Family = family.String
	p.Genus = genus.String
	p.Species = species.String
	p.Description = description.String
	p.UpdatedAt = updated.Time

	_ = json.Unmarshal([]byte(orEmpty(commonNames, "[]")), &p.CommonNames)
	_ = json.Unmarshal([]byte(orEmpty(care, "{}")), &p.Care)
	_ = json.Unmarshal([]byte(orEmpty(sources, "{}")), &p.Sources)
	_ = json.Unmarshal([]byte(orEmpty(imageURLs, "[]")), &p.ImageURLs)

	return &p, nil
}

func orEmpty(s sql.NullString, def string) string {
	if s.Valid && s.String != "" {
		return s.String
	}
	return def
}

// attachDetails loads category tags and weather rows for the given
// plants in two queries.
func (r *Repo) attachDetails(ctx context.Context, plants []*models.Plant) error {
	if len(plants) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Plant, len(plants))
	placeholders := make([]string, 0, len(plants))
	args := make([]any, 0, len(plants))
	for _, p := range plants {
		byID[p.ID] = p
		placeholders = append(placeholders, "?")
		args = append(args, p.ID)
	}
	in := "(" + strings.Join(placeholders, ",") + ")"

	rows, err := r.DB.QueryContext(ctx, `
		SELECT plant_id, category, subcategory
		FROM plant_categories
		WHERE plant_id IN `+in+`
		ORDER BY rowid
	`, args...)
	if err != nil {
		return fmt.Errorf("categories query: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id  int64
			tag models.CategoryTag
			sub sql.NullString
		)
		if err := rows.Scan(&id, &tag.Category, &sub); err != nil {
			return fmt.Errorf("categories scan: %w", err)
		}
		tag.Subcategory = sub.String
		if p := byID[id]; p != nil {
			p.Categories = append(p.Categories, tag)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("categories rows: %w", err)
	}

	wrows, err := r.DB.QueryContext(ctx, `
		SELECT plant_id, temperature_min, temperature_max, humidity_min, humidity_max,
		       sunlight_hours_min, sunlight_hours_max, rainfall_min, rainfall_max,
		       hardiness_zone_min, hardiness_zone_max
		FROM plant_weather
		WHERE plant_id IN `+in,
		args...)
	if err != nil {
		return fmt.Errorf("weather query: %w", err)
	}
	defer wrows.Close()
	for wrows.Next() {
		var (
			id       int64
			w        models.WeatherRanges
			rainMin  sql.NullFloat64
			rainMax  sql.NullFloat64
			zoneMin  sql.NullString
			zoneMax  sql.NullString
			sunMin   sql.NullInt64
			sunMax   sql.NullInt64
			tempMin  sql.NullFloat64
			tempMax  sql.NullFloat64
			humidMin sql.NullFloat64
			humidMax sql.NullFloat64
		)
		if err := wrows.Scan(&id, &tempMin, &tempMax, &humidMin, &humidMax,
			&sunMin, &sunMax, &rainMin, &rainMax, &zoneMin, &zoneMax); err != nil {
			return fmt.Errorf("weather scan: %w", err)
		}
		w.TemperatureMin = tempMin.Float64
		w.TemperatureMax = tempMax.Float64
		w.HumidityMin = humidMin.Float64
		w.HumidityMax = humidMax.Float64
		w.SunlightHoursMin = int(sunMin.Int64)
		w.SunlightHoursMax = int(sunMax.Int64)
		w.RainfallMin = rainMin.Float64
		w.RainfallMax = rainMax.Float64
		w.HardinessZoneMin = zoneMin.String
		w.HardinessZoneMax = zoneMax.String
		if p := byID[id]; p != nil {
			p.Weather = &w
		}
	}
	if err := wrows.Err(); err != nil {
		return fmt.Errorf("weather rows: %w", err)
	}

	return nil
}
