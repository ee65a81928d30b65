package dbstore

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/NateMachoka/AirBnB-clone-v2/pkg/types"
)

// tables maps each persisted class to its table. BaseModel has none.
var tables = map[string]string{
	types.ClassUser:    "users",
	types.ClassState:   "states",
	types.ClassCity:    "cities",
	types.ClassAmenity: "amenities",
	types.ClassPlace:   "places",
	types.ClassReview:  "reviews",
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
}

// scalarFields returns the declared fields of m that map to a column.
// List attributes live in join tables.
func scalarFields(m types.Model) []types.Field {
	var out []types.Field
	for _, f := range m.Fields() {
		if _, list := f.Ptr.(*[]string); list {
			continue
		}
		out = append(out, f)
	}
	return out
}

// columns returns the column list of m's table in scan order.
func columns(m types.Model) []string {
	cols := []string{types.AttrID, types.AttrCreatedAt, types.AttrUpdatedAt}
	for _, f := range scalarFields(m) {
		cols = append(cols, f.Name)
	}
	return cols
}

// isColumn reports whether field is a string column of class.
func isColumn(class, field string) bool {
	m, err := types.NewModel(class)
	if err != nil {
		return false
	}
	for _, f := range scalarFields(m) {
		if _, ok := f.Ptr.(*string); ok && f.Name == field {
			return true
		}
	}
	return false
}

// rebind rewrites ? placeholders to the $n form PostgreSQL expects.
func rebind(driver, query string) string {
	if driver != types.DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// selectModels loads the rows of class matching where (which may be empty)
// ordered by id. Places get their amenity ids attached.
func (s *Store) selectModels(q querier, class, where string, args ...any) ([]types.Model, error) {
	table, ok := tables[class]
	if !ok {
		return nil, nil
	}
	proto, err := types.NewModel(class)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns(proto), ", "), table)
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY id"

	rows, err := q.Query(rebind(s.driver, query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	var out []types.Model
	for rows.Next() {
		m, err := types.NewModel(class)
		if err != nil {
			return nil, err
		}
		var id, created, updated string
		dest := []any{&id, &created, &updated}
		for _, f := range scalarFields(m) {
			dest = append(dest, f.Ptr)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}

		b := m.Base()
		b.ID = id
		if b.CreatedAt, err = types.ParseTime(created); err != nil {
			return nil, fmt.Errorf("%s created_at: %w", types.KeyOf(class, id), err)
		}
		if b.UpdatedAt, err = types.ParseTime(updated); err != nil {
			return nil, fmt.Errorf("%s updated_at: %w", types.KeyOf(class, id), err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", table, err)
	}
	// Release the connection before the follow-up query.
	rows.Close()

	if class == types.ClassPlace && len(out) > 0 {
		if err := s.attachAmenities(q, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// attachAmenities fills AmenityIDs of each place from place_amenity.
func (s *Store) attachAmenities(q querier, places []types.Model) error {
	query := "SELECT place_id, amenity_id FROM place_amenity"
	var args []any
	if len(places) == 1 {
		query += " WHERE place_id = ?"
		args = append(args, places[0].Base().ID)
	}
	query += " ORDER BY place_id, amenity_id"

	rows, err := q.Query(rebind(s.driver, query), args...)
	if err != nil {
		return fmt.Errorf("querying place_amenity: %w", err)
	}
	defer rows.Close()

	links := make(map[string][]string)
	for rows.Next() {
		var placeID, amenityID string
		if err := rows.Scan(&placeID, &amenityID); err != nil {
			return fmt.Errorf("scanning place_amenity: %w", err)
		}
		links[placeID] = append(links[placeID], amenityID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("scanning place_amenity: %w", err)
	}

	for _, m := range places {
		m.(*types.Place).AmenityIDs = links[m.Base().ID]
	}
	return nil
}

// upsert writes m to its table, inserting or replacing by id.
func (s *Store) upsert(q querier, m types.Model) error {
	table := tables[m.ClassName()]
	b := m.Base()
	cols := columns(m)

	args := []any{b.ID, b.CreatedAt.Format(types.TimeFormat), b.UpdatedAt.Format(types.TimeFormat)}
	for _, f := range scalarFields(m) {
		switch p := f.Ptr.(type) {
		case *string:
			args = append(args, *p)
		case *int:
			args = append(args, *p)
		case *float64:
			args = append(args, *p)
		}
	}

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	updates := make([]string, 0, len(cols)-1)
	for _, c := range cols[1:] {
		updates = append(updates, c+" = excluded."+c)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
		table, strings.Join(cols, ", "), marks, strings.Join(updates, ", "))

	if _, err := q.Exec(rebind(s.driver, query), args...); err != nil {
		return fmt.Errorf("writing %s: %w", types.Key(m), err)
	}

	if p, ok := m.(*types.Place); ok {
		return s.linkAmenities(q, p)
	}
	return nil
}

// linkAmenities replaces the place_amenity rows of p.
func (s *Store) linkAmenities(q querier, p *types.Place) error {
	if _, err := q.Exec(rebind(s.driver, "DELETE FROM place_amenity WHERE place_id = ?"), p.ID); err != nil {
		return fmt.Errorf("unlinking amenities of %s: %w", types.Key(p), err)
	}
	for _, amenityID := range p.AmenityIDs {
		_, err := q.Exec(rebind(s.driver, "INSERT INTO place_amenity (place_id, amenity_id) VALUES (?, ?)"), p.ID, amenityID)
		if err != nil {
			return fmt.Errorf("linking amenity %s to %s: %w", amenityID, types.Key(p), err)
		}
	}
	return nil
}

// remove deletes the row of m. Dependent rows follow the schema's cascades.
func (s *Store) remove(q querier, m types.Model) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", tables[m.ClassName()])
	if _, err := q.Exec(rebind(s.driver, query), m.Base().ID); err != nil {
		return fmt.Errorf("deleting %s: %w", types.Key(m), err)
	}
	return nil
}
