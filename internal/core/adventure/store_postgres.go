// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package adventure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/internal/core/geo"
	"github.com/taibuivan/sunday/internal/platform/apperr"
	"github.com/taibuivan/sunday/internal/platform/database/schema"
	"github.com/taibuivan/sunday/internal/platform/dberr"
	"github.com/taibuivan/sunday/internal/platform/images"
	"github.com/taibuivan/sunday/internal/platform/postgres"
	"github.com/taibuivan/sunday/pkg/slice"
	"github.com/taibuivan/sunday/pkg/uuid"
)

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db   postgres.DB
	q    postgres.Querier
	inTx bool
}

// NewPostgresRepository constructs a PostgreSQL backed adventure store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db, q: db}
}

// InTx runs fn against a repository bound to a single transaction.
func (repository *PostgresRepository) InTx(context context.Context, fn func(Repository) error) error {
	return repository.withTx(context, func(tx *PostgresRepository) error {
		return fn(tx)
	})
}

func (repository *PostgresRepository) withTx(context context.Context, fn func(*PostgresRepository) error) error {
	if repository.inTx {
		return fn(repository)
	}

	return postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		return fn(&PostgresRepository{db: repository.db, q: tx, inTx: true})
	}, func(err error) error {
		return dberr.Update(err, "adventure_transaction")
	})
}

// # Adventure Retrieval

/*
GetAdventure retrieves an adventure joined with its detail row and creator.

Description: The detail columns are read generically from the type's column
table. Path columns are split at the edit marker and tallies are rounded.

Parameters:
  - context: context.Context
  - adventureID: string
  - adventureType: activity.Type

Returns:
  - *Adventure: Hydrated entity
  - error: NOT_FOUND if missing
*/
func (repository *PostgresRepository) GetAdventure(context context.Context, adventureID string, adventureType activity.Type) (*Adventure, error) {
	table, ok := specificTables[adventureType]
	if !ok {
		return nil, apperr.NotFound("Adventure")
	}

	columns := specificFields[adventureType]
	selected := make([]string, 0, len(columns)+2)
	for _, specific := range columns {
		selected = append(selected, "s."+specific.name)
	}
	if adventureType.HasPath() {
		selected = append(selected, "s."+schema.TrailPath, "s."+schema.Elevations)
	}

	query := fmt.Sprintf(`
		SELECT
			a.%s, a.%s, a.%s, a.%s, a.%s, a.%s,
			a.%s, a.%s, a.%s, a.%s, a.%s, a.%s,
			u.%s, concat_ws(' ', u.%s, u.%s), u.%s, u.%s,
			%s
		FROM %s a
		INNER JOIN %s s ON s.%s = a.%s
		INNER JOIN %s u ON u.%s = a.%s
		WHERE a.%s = $1 AND a.%s = $2`,
		schema.Adventures.ID, schema.Adventures.Name, schema.Adventures.Bio, schema.Adventures.NearestCity,
		schema.Adventures.CoordinatesLat, schema.Adventures.CoordinatesLng,
		schema.Adventures.Public, schema.Adventures.Rating, schema.Adventures.Difficulty,
		schema.Adventures.CreatorID, schema.Adventures.DateCreated, schema.Adventures.AdventureType,
		schema.Users.ID, schema.Users.FirstName, schema.Users.LastName, schema.Users.Email, schema.Users.ProfilePictureURL,
		strings.Join(selected, ", "),
		schema.Adventures.Table,
		table.Table, table.ID, schema.Adventures.SpecificID,
		schema.Users.Table, schema.Users.ID, schema.Adventures.CreatorID,
		schema.Adventures.ID, schema.Adventures.AdventureType,
	)

	var (
		adventure             Adventure
		creator               Creator
		rating, difficulty    string
		storedType            string
		trailPath, elevations string
	)

	targets := []any{
		&adventure.ID, &adventure.Name, &adventure.Bio, &adventure.NearestCity,
		&adventure.Coordinates.Lat, &adventure.Coordinates.Lng,
		&adventure.Public, &rating, &difficulty,
		&adventure.CreatorID, &adventure.DateCreated, &storedType,
		&creator.ID, &creator.Name, &creator.Email, &creator.ProfilePictureURL,
	}
	specificTargets := make([]any, len(columns))
	for i, specific := range columns {
		specificTargets[i] = scanTarget(specific.kind)
	}
	targets = append(targets, specificTargets...)
	if adventureType.HasPath() {
		targets = append(targets, &trailPath, &elevations)
	}

	if err := repository.q.QueryRow(context, query, adventureID, string(adventureType)).Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Adventure")
		}
		return nil, dberr.Query(err, "get_adventure")
	}

	adventure.AdventureType = activity.Type(storedType)
	adventure.Creator = &creator

	adventure.Specific = make(map[string]any, len(columns))
	for i, specific := range columns {
		adventure.Specific[specific.name] = dereference(specificTargets[i])
	}

	var err error
	if adventure.Rating, err = parseRounded(rating); err != nil {
		return nil, dberr.Query(err, "decode_adventure_rating")
	}
	if adventure.Difficulty, err = parseRounded(difficulty); err != nil {
		return nil, dberr.Query(err, "decode_adventure_difficulty")
	}

	if adventure.Path, adventure.Points, err = SplitPath(trailPath); err != nil {
		return nil, dberr.Query(err, "decode_adventure_path")
	}
	adventure.Elevations = json.RawMessage(elevationsOrEmpty(json.RawMessage(elevations)))
	adventure.Images = []string{}

	return &adventure, nil
}

// GetAdventureImages lists picture thumbnails in upload order.
func (repository *PostgresRepository) GetAdventureImages(context context.Context, adventureID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		schema.AdventurePictures.URL, schema.AdventurePictures.Table,
		schema.AdventurePictures.AdventureID, schema.AdventurePictures.ID,
	)

	rows, err := repository.q.Query(context, query, adventureID)
	if err != nil {
		return nil, dberr.Query(err, "get_adventure_images")
	}

	urls, err := collectStrings(rows)
	if err != nil {
		return nil, dberr.Query(err, "scan_adventure_images")
	}
	return slice.Map(urls, images.ThumbnailURL), nil
}

/*
GetAdventureList lists the public adventures of a type that no zone contains.

Description: Types with a path carry their display path; climbs read an empty
one.
*/
func (repository *PostgresRepository) GetAdventureList(context context.Context, adventureType activity.Type) ([]ListItem, error) {
	pathColumn, pathJoin := fmt.Sprintf("'%s'", schema.EmptyPath), ""
	if table, ok := specificTables[adventureType]; ok && adventureType.HasPath() {
		pathColumn = "s." + schema.TrailPath
		pathJoin = fmt.Sprintf("INNER JOIN %s s ON s.%s = a.%s", table.Table, table.ID, schema.Adventures.SpecificID)
	}

	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, a.%s, %s
		FROM %s a
		LEFT JOIN %s zi ON zi.%s = a.%s
		%s
		WHERE a.%s = $1 AND a.%s = TRUE AND zi.%s IS NULL
		ORDER BY a.%s ASC, a.%s ASC`,
		schema.Adventures.ID, schema.Adventures.Name, schema.Adventures.AdventureType,
		schema.Adventures.CoordinatesLat, schema.Adventures.CoordinatesLng, pathColumn,
		schema.Adventures.Table,
		schema.ZoneInteractions.Table, schema.ZoneInteractions.AdventureChildID, schema.Adventures.ID,
		pathJoin,
		schema.Adventures.AdventureType, schema.Adventures.Public, schema.ZoneInteractions.ID,
		schema.Adventures.DateCreated, schema.Adventures.ID,
	)

	rows, err := repository.q.Query(context, query, string(adventureType))
	if err != nil {
		return nil, dberr.Query(err, "get_adventure_list")
	}
	defer rows.Close()

	items := make([]ListItem, 0)
	for rows.Next() {
		var (
			item       ListItem
			storedType string
			storedPath string
		)
		if err := rows.Scan(&item.ID, &item.Name, &storedType, &item.Coordinates.Lat, &item.Coordinates.Lng, &storedPath); err != nil {
			return nil, dberr.Query(err, "scan_adventure_list")
		}

		if item.Path, _, err = SplitPath(storedPath); err != nil {
			return nil, dberr.Query(err, "decode_adventure_list_path")
		}
		item.AdventureType = activity.Type(storedType)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Query(err, "iterate_adventure_list")
	}
	return items, nil
}

// # Proximity

// GetNearestAdventures returns the closest public adventures of a type.
func (repository *PostgresRepository) GetNearestAdventures(context context.Context, adventureType activity.Type, origin geo.Coordinates, count int) ([]Summary, error) {
	return repository.runNearest(context, nearestQuery(adventureType, origin, count), "get_nearest_adventures")
}

/*
GetNearestAdventuresExcludingZone leaves out the direct children of zoneID.

Description: Adventures without any parent edge are kept; the LEFT JOIN yields
a NULL parent for them.
*/
func (repository *PostgresRepository) GetNearestAdventuresExcludingZone(context context.Context, adventureType activity.Type, zoneID string, origin geo.Coordinates, count int) ([]Summary, error) {
	query := nearestQuery(adventureType, origin, count).
		LeftJoin(fmt.Sprintf("%s zi ON zi.%s = a.%s",
			schema.ZoneInteractions.Table, schema.ZoneInteractions.AdventureChildID, schema.Adventures.ID)).
		Where(fmt.Sprintf("(zi.%s IS NULL OR zi.%s <> ?)",
			schema.ZoneInteractions.ParentID, schema.ZoneInteractions.ParentID), zoneID)

	return repository.runNearest(context, query, "get_nearest_adventures_excluding_zone")
}

func nearestQuery(adventureType activity.Type, origin geo.Coordinates, count int) squirrel.SelectBuilder {
	return builder().
		Select(fmt.Sprintf("a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s",
			schema.Adventures.ID, schema.Adventures.Name, schema.Adventures.AdventureType,
			schema.Adventures.Difficulty, schema.Adventures.Rating, schema.Adventures.NearestCity,
			schema.Adventures.CoordinatesLat, schema.Adventures.CoordinatesLng,
		)).
		From(schema.Adventures.Table + " a").
		Where(squirrel.Eq{"a." + schema.Adventures.AdventureType: string(adventureType)}).
		Where("a." + schema.Adventures.Public + " = TRUE").
		OrderByClause(fmt.Sprintf("power(a.%s - ?, 2) + power(a.%s - ?, 2) ASC",
			schema.Adventures.CoordinatesLat, schema.Adventures.CoordinatesLng), origin.Lat, origin.Lng).
		OrderBy("a."+schema.Adventures.DateCreated+" ASC", "a."+schema.Adventures.ID+" ASC").
		Limit(uint64(count))
}

func (repository *PostgresRepository) runNearest(context context.Context, query squirrel.SelectBuilder, action string) ([]Summary, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, dberr.Query(err, action)
	}

	rows, err := repository.q.Query(context, sql, args...)
	if err != nil {
		return nil, dberr.Query(err, action)
	}
	defer rows.Close()

	adventures := make([]Summary, 0)
	for rows.Next() {
		var (
			adventure          Summary
			storedType         string
			difficulty, rating string
		)
		if err := rows.Scan(
			&adventure.ID, &adventure.Name, &storedType, &difficulty, &rating,
			&adventure.NearestCity, &adventure.Coordinates.Lat, &adventure.Coordinates.Lng,
		); err != nil {
			return nil, dberr.Query(err, action)
		}

		if adventure.Difficulty, err = parseRounded(difficulty); err != nil {
			return nil, dberr.Query(err, action)
		}
		if adventure.Rating, err = parseRounded(rating); err != nil {
			return nil, dberr.Query(err, action)
		}
		adventure.AdventureType = activity.Type(storedType)
		adventures = append(adventures, adventure)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Query(err, action)
	}
	return adventures, nil
}

// # Ratings

// GetRatingsForUpdate locks the adventure row until the transaction ends.
func (repository *PostgresRepository) GetRatingsForUpdate(context context.Context, adventureID string) (Ratings, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1 FOR UPDATE`,
		schema.Adventures.Rating, schema.Adventures.Difficulty, schema.Adventures.Table, schema.Adventures.ID,
	)

	var rating, difficulty string
	if err := repository.q.QueryRow(context, query, adventureID).Scan(&rating, &difficulty); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ratings{}, apperr.NotFound("Adventure")
		}
		return Ratings{}, dberr.Query(err, "get_adventure_ratings")
	}

	var (
		ratings Ratings
		err     error
	)
	if ratings.Rating, err = ParseTally(rating); err != nil {
		return Ratings{}, dberr.Query(err, "decode_adventure_rating")
	}
	if ratings.Difficulty, err = ParseTally(difficulty); err != nil {
		return Ratings{}, dberr.Query(err, "decode_adventure_difficulty")
	}
	return ratings, nil
}

// SetRatings stores both tallies in their "value:count" form.
func (repository *PostgresRepository) SetRatings(context context.Context, adventureID string, ratings Ratings) error {
	query, args, err := builder().
		Update(schema.Adventures.Table).
		Set(schema.Adventures.Rating, ratings.Rating.String()).
		Set(schema.Adventures.Difficulty, ratings.Difficulty.String()).
		Where(squirrel.Eq{schema.Adventures.ID: adventureID}).
		ToSql()
	if err != nil {
		return dberr.Update(err, "build_set_ratings")
	}

	tag, err := repository.q.Exec(context, query, args...)
	if err != nil {
		return dberr.Update(err, "set_adventure_ratings")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Adventure")
	}
	return nil
}

// # Adventure Mutation

/*
AddAdventures inserts adventures grouped by type, in one transaction.

Description: For each type present, one multi-row insert writes the detail
rows and a second writes the general rows pointing at them. Ids are generated
here, so no insert order has to be recovered afterwards.

Parameters:
  - context: context.Context
  - inputs: []NewAdventure (Already validated)

Returns:
  - []*Adventure: Stored adventures grouped in [activity.All] order
  - error: INSERTION_FAILED on store errors
*/
func (repository *PostgresRepository) AddAdventures(context context.Context, inputs []NewAdventure) ([]*Adventure, error) {
	stored := make([]*Adventure, 0, len(inputs))
	if len(inputs) == 0 {
		return stored, nil
	}

	err := repository.withTx(context, func(tx *PostgresRepository) error {
		for _, adventureType := range activity.All {
			group := slice.Filter(inputs, func(input NewAdventure) bool {
				return activity.Type(input.AdventureType) == adventureType
			})
			if len(group) == 0 {
				continue
			}

			adventures, err := tx.insertGroup(context, adventureType, group)
			if err != nil {
				return err
			}
			stored = append(stored, adventures...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (repository *PostgresRepository) insertGroup(context context.Context, adventureType activity.Type, group []NewAdventure) ([]*Adventure, error) {
	table := specificTables[adventureType]

	specific := builder().Insert(table.Table)
	general := builder().Insert(schema.Adventures.Table).Columns(schema.Adventures.InsertColumns()...)
	adventures := make([]*Adventure, 0, len(group))

	for i, input := range group {
		names, row, err := specificRow(adventureType, input.Specific)
		if err != nil {
			return nil, err
		}

		if i == 0 {
			columns := append([]string{table.ID}, names...)
			if adventureType.HasPath() {
				columns = append(columns, schema.TrailPath, schema.Elevations)
			}
			specific = specific.Columns(columns...)
		}

		rating, _ := ParseTally(input.Rating)
		difficulty, _ := ParseTally(input.Difficulty)

		adventure := &Adventure{
			ID:            uuid.New(),
			Name:          input.Name,
			AdventureType: adventureType,
			Bio:           input.Bio,
			NearestCity:   input.NearestCity,
			Coordinates:   geo.Coordinates{Lat: *input.Lat, Lng: *input.Lng},
			Public:        *input.Public,
			Rating:        rating,
			Difficulty:    difficulty,
			CreatorID:     input.CreatorID,
			Specific:      make(map[string]any, len(names)),
			Path:          [][]float64{},
			Points:        [][]float64{},
			Elevations:    json.RawMessage(schema.EmptyPath),
			Images:        []string{},
		}
		for j, name := range names {
			adventure.Specific[name] = row[j]
		}

		specificID := uuid.New()
		values := append([]any{specificID}, row...)
		if adventureType.HasPath() {
			adventure.Path, adventure.Points = roundPath(input.Path), roundPath(input.Points)
			adventure.Elevations = json.RawMessage(elevationsOrEmpty(input.Elevations))
			values = append(values, JoinPath(input.Path, input.Points), string(adventure.Elevations))
		}
		specific = specific.Values(values...)

		general = general.Values(
			adventure.ID, specificID, adventure.Name, string(adventureType), adventure.Bio, adventure.Coordinates.Lat,
			adventure.Coordinates.Lng, adventure.CreatorID, adventure.NearestCity, adventure.Public,
			adventure.Rating.String(), adventure.Difficulty.String(),
		)
		adventures = append(adventures, adventure)
	}

	query, args, err := specific.ToSql()
	if err != nil {
		return nil, dberr.Insert(err, "build_add_specific")
	}
	if _, err := repository.q.Exec(context, query, args...); err != nil {
		return nil, dberr.Insert(err, "add_adventure_specific")
	}

	query, args, err = general.
		Suffix(fmt.Sprintf("RETURNING %s, %s", schema.Adventures.ID, schema.Adventures.DateCreated)).
		ToSql()
	if err != nil {
		return nil, dberr.Insert(err, "build_add_general")
	}

	rows, err := repository.q.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Insert(err, "add_adventure_general")
	}
	defer rows.Close()

	created := make(map[string]time.Time, len(adventures))
	for rows.Next() {
		var (
			id          string
			dateCreated time.Time
		)
		if err := rows.Scan(&id, &dateCreated); err != nil {
			return nil, dberr.Insert(err, "scan_add_adventure")
		}
		created[id] = dateCreated
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Insert(err, "add_adventure_general")
	}

	for _, adventure := range adventures {
		adventure.DateCreated = created[adventure.ID]
	}
	return adventures, nil
}

// EditAdventureField updates one column on the general or detail table.
func (repository *PostgresRepository) EditAdventureField(context context.Context, spec FieldSpec, value any, adventureID string, adventureType activity.Type) error {
	update := builder().Update(spec.Table).Set(spec.Name, value)

	if spec.Specific {
		update = update.Where(specificOf(specificTables[adventureType]), adventureID, string(adventureType))
	} else {
		update = update.Where(squirrel.Eq{
			schema.Adventures.ID:            adventureID,
			schema.Adventures.AdventureType: string(adventureType),
		})
	}

	query, args, err := update.ToSql()
	if err != nil {
		return dberr.Update(err, "build_edit_adventure")
	}

	tag, err := repository.q.Exec(context, query, args...)
	if err != nil {
		return dberr.Update(err, "edit_adventure_field")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Adventure")
	}
	return nil
}

// ClearAdventurePath resets trail_path and elevations of the detail row.
func (repository *PostgresRepository) ClearAdventurePath(context context.Context, adventureID string, adventureType activity.Type) error {
	table, ok := specificTables[adventureType]
	if !ok || !adventureType.HasPath() {
		return apperr.NotFound("Adventure")
	}

	query, args, err := builder().
		Update(table.Table).
		Set(schema.TrailPath, schema.EmptyPath).
		Set(schema.Elevations, schema.EmptyPath).
		Where(specificOf(table), adventureID, string(adventureType)).
		ToSql()
	if err != nil {
		return dberr.Update(err, "build_clear_adventure_path")
	}

	tag, err := repository.q.Exec(context, query, args...)
	if err != nil {
		return dberr.Update(err, "clear_adventure_path")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Adventure")
	}
	return nil
}

// SetAdventurePath writes the path with its summary elevations. Hikes and
// bikes also store the total climb and descent.
func (repository *PostgresRepository) SetAdventurePath(context context.Context, edit PathEdit, storedPath string) error {
	adventureType := activity.Type(edit.AdventureType)

	table, ok := specificTables[adventureType]
	if !ok || !adventureType.HasPath() {
		return apperr.NotFound("Adventure")
	}

	update := builder().
		Update(table.Table).
		Set(schema.TrailPath, storedPath).
		Set(schema.Elevations, elevationsOrEmpty(edit.Elevations)).
		Set(schema.SummitElevation, edit.SummitElevation).
		Set(schema.BaseElevation, edit.BaseElevation)

	if adventureType == activity.Hike || adventureType == activity.Bike {
		update = update.
			Set(schema.ElevationClimb, edit.Climb).
			Set(schema.ElevationDescent, edit.Descent)
	}

	query, args, err := update.Where(specificOf(table), edit.AdventureID, edit.AdventureType).ToSql()
	if err != nil {
		return dberr.Update(err, "build_set_adventure_path")
	}

	tag, err := repository.q.Exec(context, query, args...)
	if err != nil {
		return dberr.Update(err, "set_adventure_path")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Adventure")
	}
	return nil
}

/*
DeleteAdventure removes an adventure and everything that points at it.

Description: Edges and pictures go first, then the general row, whose
specific_id names the detail row removed last. The searchable row follows the
general row through its foreign key.

Returns:
  - []string: URLs of the removed pictures
  - error: NOT_FOUND if missing
*/
func (repository *PostgresRepository) DeleteAdventure(context context.Context, adventureID string, adventureType activity.Type) ([]string, error) {
	table, ok := specificTables[adventureType]
	if !ok {
		return nil, apperr.NotFound("Adventure")
	}

	var urls []string
	err := repository.withTx(context, func(tx *PostgresRepository) error {
		edges := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
			schema.ZoneInteractions.Table, schema.ZoneInteractions.AdventureChildID)
		if _, err := tx.q.Exec(context, edges, adventureID); err != nil {
			return dberr.Delete(err, "delete_adventure_edges")
		}

		pictures := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 RETURNING %s`,
			schema.AdventurePictures.Table, schema.AdventurePictures.AdventureID, schema.AdventurePictures.URL)
		rows, err := tx.q.Query(context, pictures, adventureID)
		if err != nil {
			return dberr.Delete(err, "delete_adventure_pictures")
		}
		if urls, err = collectStrings(rows); err != nil {
			return dberr.Delete(err, "delete_adventure_pictures")
		}

		general := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2 RETURNING %s`,
			schema.Adventures.Table, schema.Adventures.ID, schema.Adventures.AdventureType, schema.Adventures.SpecificID)
		var specificID string
		if err := tx.q.QueryRow(context, general, adventureID, string(adventureType)).Scan(&specificID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound("Adventure")
			}
			return dberr.Delete(err, "delete_adventure")
		}

		detail := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)
		if _, err := tx.q.Exec(context, detail, specificID); err != nil {
			return dberr.Delete(err, "delete_adventure_specific")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return urls, nil
}

// # Progress Lists

func progressTable(list List) (schema.ProgressTable, error) {
	switch list {
	case ListCompleted:
		return schema.CompletedAdventures, nil
	case ListTodo:
		return schema.TodoAdventures, nil
	}
	return schema.ProgressTable{}, apperr.ValidationError(fmt.Sprintf("list: Unknown list %q", list))
}

/*
AddToList inserts the entry only when the adventure exists; the unique
(user_id, adventure_id) pair turns a repeat into a visibility update.
*/
func (repository *PostgresRepository) AddToList(context context.Context, list List, mark Mark) error {
	table, err := progressTable(list)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		SELECT $1::uuid, $2::uuid, a.%s, $3::boolean FROM %s a WHERE a.%s = $4
		ON CONFLICT (%s, %s) DO UPDATE SET %s = EXCLUDED.%s`,
		table.Table, table.ID, table.UserID, table.AdventureID, table.Public,
		schema.Adventures.ID, schema.Adventures.Table, schema.Adventures.ID,
		table.UserID, table.AdventureID, table.Public, table.Public,
	)

	tag, err := repository.q.Exec(context, query, uuid.New(), mark.UserID, *mark.Public, mark.AdventureID)
	if err != nil {
		return dberr.Insert(err, "add_to_"+string(list))
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Adventure")
	}
	return nil
}

// RemoveFromList deletes one entry. A missing entry is not an error.
func (repository *PostgresRepository) RemoveFromList(context context.Context, list List, userID, adventureID string) (bool, error) {
	table, err := progressTable(list)
	if err != nil {
		return false, err
	}

	query, args, err := builder().
		Delete(table.Table).
		Where(squirrel.Eq{table.UserID: userID, table.AdventureID: adventureID}).
		ToSql()
	if err != nil {
		return false, dberr.Delete(err, "build_remove_from_"+string(list))
	}

	tag, err := repository.q.Exec(context, query, args...)
	if err != nil {
		return false, dberr.Delete(err, "remove_from_"+string(list))
	}
	return tag.RowsAffected() > 0, nil
}

// GetListEntry reads one entry with the adventure and the user's display name.
func (repository *PostgresRepository) GetListEntry(context context.Context, list List, userID, adventureID string) (*Progress, error) {
	table, err := progressTable(list)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT
			a.%s, a.%s, a.%s, a.%s, p.%s, p.%s,
			u.%s, concat_ws(' ', u.%s, u.%s), u.%s, u.%s
		FROM %s p
		INNER JOIN %s a ON a.%s = p.%s
		INNER JOIN %s u ON u.%s = p.%s
		WHERE p.%s = $1 AND p.%s = $2`,
		schema.Adventures.ID, schema.Adventures.Name, schema.Adventures.AdventureType, schema.Adventures.NearestCity,
		table.Public, table.DateCreated,
		schema.Users.ID, schema.Users.FirstName, schema.Users.LastName, schema.Users.Email, schema.Users.ProfilePictureURL,
		table.Table,
		schema.Adventures.Table, schema.Adventures.ID, table.AdventureID,
		schema.Users.Table, schema.Users.ID, table.UserID,
		table.UserID, table.AdventureID,
	)

	var (
		entry      = Progress{List: list}
		storedType string
	)
	err = repository.q.QueryRow(context, query, userID, adventureID).Scan(
		&entry.Adventure.AdventureID, &entry.Adventure.Name, &storedType, &entry.Adventure.NearestCity,
		&entry.Adventure.Public, &entry.Adventure.DateCreated,
		&entry.User.UserID, &entry.User.DisplayName, &entry.User.Email, &entry.User.ProfilePictureURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("List entry")
		}
		return nil, dberr.Query(err, "get_"+string(list)+"_entry")
	}

	entry.Adventure.AdventureType = activity.Type(storedType)
	return &entry, nil
}

// GetListedUsers lists the users who marked the adventure publicly.
func (repository *PostgresRepository) GetListedUsers(context context.Context, list List, adventureID string) ([]ListedUser, error) {
	table, err := progressTable(list)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT u.%s, concat_ws(' ', u.%s, u.%s), u.%s, u.%s
		FROM %s p
		INNER JOIN %s u ON u.%s = p.%s
		WHERE p.%s = $1 AND p.%s = TRUE
		ORDER BY p.%s ASC, p.%s ASC`,
		schema.Users.ID, schema.Users.FirstName, schema.Users.LastName, schema.Users.Email, schema.Users.ProfilePictureURL,
		table.Table,
		schema.Users.Table, schema.Users.ID, table.UserID,
		table.AdventureID, table.Public,
		table.DateCreated, table.ID,
	)

	rows, err := repository.q.Query(context, query, adventureID)
	if err != nil {
		return nil, dberr.Query(err, "get_"+string(list)+"_users")
	}
	defer rows.Close()

	users := make([]ListedUser, 0)
	for rows.Next() {
		var user ListedUser
		if err := rows.Scan(&user.UserID, &user.DisplayName, &user.Email, &user.ProfilePictureURL); err != nil {
			return nil, dberr.Query(err, "scan_"+string(list)+"_users")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Query(err, "iterate_"+string(list)+"_users")
	}
	return users, nil
}

// GetListedAdventures lists a user's entries with their adventures.
func (repository *PostgresRepository) GetListedAdventures(context context.Context, list List, userID string, includePrivate bool) ([]ListedAdventure, error) {
	table, err := progressTable(list)
	if err != nil {
		return nil, err
	}

	statement := builder().
		Select(fmt.Sprintf("a.%s, a.%s, a.%s, a.%s, p.%s, p.%s",
			schema.Adventures.ID, schema.Adventures.Name, schema.Adventures.AdventureType,
			schema.Adventures.NearestCity, table.Public, table.DateCreated,
		)).
		From(table.Table + " p").
		InnerJoin(fmt.Sprintf("%s a ON a.%s = p.%s", schema.Adventures.Table, schema.Adventures.ID, table.AdventureID)).
		Where(squirrel.Eq{"p." + table.UserID: userID}).
		OrderBy("p."+table.DateCreated+" DESC", "p."+table.ID+" ASC")
	if !includePrivate {
		statement = statement.Where("p." + table.Public + " = TRUE")
	}

	query, args, err := statement.ToSql()
	if err != nil {
		return nil, dberr.Query(err, "build_get_"+string(list)+"_adventures")
	}

	rows, err := repository.q.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Query(err, "get_"+string(list)+"_adventures")
	}
	defer rows.Close()

	adventures := make([]ListedAdventure, 0)
	for rows.Next() {
		var (
			adventure  ListedAdventure
			storedType string
		)
		if err := rows.Scan(
			&adventure.AdventureID, &adventure.Name, &storedType,
			&adventure.NearestCity, &adventure.Public, &adventure.DateCreated,
		); err != nil {
			return nil, dberr.Query(err, "scan_"+string(list)+"_adventures")
		}
		adventure.AdventureType = activity.Type(storedType)
		adventures = append(adventures, adventure)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Query(err, "iterate_"+string(list)+"_adventures")
	}
	return adventures, nil
}

// # Pictures

// AddPicture inserts the picture row only when the adventure exists.
func (repository *PostgresRepository) AddPicture(context context.Context, picture Picture) (string, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		SELECT $1::uuid, a.%s, $2::uuid, $3 FROM %s a WHERE a.%s = $4`,
		schema.AdventurePictures.Table,
		schema.AdventurePictures.ID, schema.AdventurePictures.AdventureID,
		schema.AdventurePictures.CreatorID, schema.AdventurePictures.URL,
		schema.Adventures.ID, schema.Adventures.Table, schema.Adventures.ID,
	)

	id := uuid.New()
	tag, err := repository.q.Exec(context, query, id, picture.CreatorID, picture.URL, picture.AdventureID)
	if err != nil {
		return "", dberr.Insert(err, "add_adventure_picture")
	}
	if tag.RowsAffected() == 0 {
		return "", apperr.NotFound("Adventure")
	}
	return id, nil
}

// # Helpers

// specificOf matches the detail row of an adventure id and type.
func specificOf(table schema.SpecificTable) string {
	return fmt.Sprintf("%s = (SELECT %s FROM %s WHERE %s = ? AND %s = ?)",
		table.ID, schema.Adventures.SpecificID, schema.Adventures.Table,
		schema.Adventures.ID, schema.Adventures.AdventureType,
	)
}

func scanTarget(kind Kind) any {
	switch kind {
	case KindInt:
		return new(int)
	case KindFloat:
		return new(float64)
	case KindBool:
		return new(bool)
	}
	return new(string)
}

func dereference(target any) any {
	switch value := target.(type) {
	case *int:
		return *value
	case *float64:
		return *value
	case *bool:
		return *value
	case *string:
		return *value
	}
	return nil
}

func parseRounded(raw string) (Tally, error) {
	tally, err := ParseTally(raw)
	if err != nil {
		return Tally{}, err
	}
	return tally.Rounded(), nil
}

func collectStrings(rows pgx.Rows) ([]string, error) {
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, rows.Err()
}
