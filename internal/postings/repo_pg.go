package postings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new posting.
func (r *PGRepo) Create(ctx context.Context, p Posting) error {
	const query = `
INSERT INTO postings (id, title, description, education_level, field_of_study, years_experience, hard_skills, soft_skills, languages, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	hard, err := json.Marshal(emptyIfNil(p.HardSkills))
	if err != nil {
		return fmt.Errorf("marshal hard skills: %w", err)
	}
	soft, err := json.Marshal(emptyIfNil(p.SoftSkills))
	if err != nil {
		return fmt.Errorf("marshal soft skills: %w", err)
	}
	langs, err := json.Marshal(emptyIfNil(p.Languages))
	if err != nil {
		return fmt.Errorf("marshal languages: %w", err)
	}

	var eduLevel, fieldOfStudy sql.NullString
	if p.EducationLevel != "" {
		eduLevel = sql.NullString{String: p.EducationLevel, Valid: true}
	}
	if p.FieldOfStudy != "" {
		fieldOfStudy = sql.NullString{String: p.FieldOfStudy, Valid: true}
	}

	_, err = r.DB.ExecContext(ctx, query, p.ID, p.Title, p.Description, eduLevel, fieldOfStudy, p.YearsExperience, hard, soft, langs, p.CreatedAt)
	return err
}

// GetByID returns a posting by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Posting, error) {
	const query = `
SELECT id, title, description, education_level, field_of_study, years_experience, hard_skills, soft_skills, languages, created_at
FROM postings
WHERE id = $1`

	var p Posting
	var eduLevel, fieldOfStudy sql.NullString
	var hardRaw, softRaw, langsRaw []byte
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&eduLevel,
		&fieldOfStudy,
		&p.YearsExperience,
		&hardRaw,
		&softRaw,
		&langsRaw,
		&p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Posting{}, ErrNotFound
	}
	if err != nil {
		return Posting{}, err
	}

	p.EducationLevel = eduLevel.String
	p.FieldOfStudy = fieldOfStudy.String
	for _, pair := range []struct {
		raw []byte
		dst *[]string
	}{
		{hardRaw, &p.HardSkills},
		{softRaw, &p.SoftSkills},
		{langsRaw, &p.Languages},
	} {
		if len(pair.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
			return Posting{}, fmt.Errorf("unmarshal posting lists: %w", err)
		}
	}
	return p, nil
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

var _ Repo = (*PGRepo)(nil)
