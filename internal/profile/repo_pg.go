package profile

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// GetProfile returns the user's profile.
func (r *PGRepo) GetProfile(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT user_id, full_name, email, phone, location, headline, summary, linkedin, website, updated_at
FROM profiles
WHERE user_id = $1
LIMIT 1`
	var p Profile
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.FullName,
		&p.Email,
		&p.Phone,
		&p.Location,
		&p.Headline,
		&p.Summary,
		&p.LinkedIn,
		&p.Website,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

// GetComprehensive returns the profile plus all history tables.
func (r *PGRepo) GetComprehensive(ctx context.Context, userID string) (Comprehensive, error) {
	p, err := r.GetProfile(ctx, userID)
	if err != nil {
		return Comprehensive{}, err
	}
	employment, err := r.ListEmployment(ctx, userID)
	if err != nil {
		return Comprehensive{}, err
	}
	education, err := r.ListEducation(ctx, userID)
	if err != nil {
		return Comprehensive{}, err
	}
	skills, err := r.ListSkills(ctx, userID)
	if err != nil {
		return Comprehensive{}, err
	}
	projects, err := r.ListProjects(ctx, userID)
	if err != nil {
		return Comprehensive{}, err
	}
	certifications, err := r.ListCertifications(ctx, userID)
	if err != nil {
		return Comprehensive{}, err
	}
	return Comprehensive{
		Profile:        p,
		Employment:     employment,
		Education:      education,
		Skills:         skills,
		Projects:       projects,
		Certifications: certifications,
	}, nil
}

// ListEmployment returns employment entries ordered most recent first.
func (r *PGRepo) ListEmployment(ctx context.Context, userID string) ([]Employment, error) {
	const query = `
SELECT id, user_id, company, role, location, start_date, end_date, description
FROM employment
WHERE user_id = $1
ORDER BY start_date DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employment
	for rows.Next() {
		var e Employment
		if err := rows.Scan(&e.ID, &e.UserID, &e.Company, &e.Role, &e.Location, &e.StartDate, &e.EndDate, &e.Description); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListEducation returns education entries ordered most recent first.
func (r *PGRepo) ListEducation(ctx context.Context, userID string) ([]Education, error) {
	const query = `
SELECT id, user_id, institution, degree, field, start_date, end_date
FROM education
WHERE user_id = $1
ORDER BY start_date DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Education
	for rows.Next() {
		var e Education
		if err := rows.Scan(&e.ID, &e.UserID, &e.Institution, &e.Degree, &e.Field, &e.StartDate, &e.EndDate); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListSkills returns skill entries.
func (r *PGRepo) ListSkills(ctx context.Context, userID string) ([]Skill, error) {
	const query = `
SELECT id, user_id, name, proficiency
FROM skills
WHERE user_id = $1
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Skill
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Proficiency); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListProjects returns project entries.
func (r *PGRepo) ListProjects(ctx context.Context, userID string) ([]Project, error) {
	const query = `
SELECT id, user_id, name, description, url
FROM projects
WHERE user_id = $1
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.URL); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListCertifications returns certification entries.
func (r *PGRepo) ListCertifications(ctx context.Context, userID string) ([]Certification, error) {
	const query = `
SELECT id, user_id, name, issuer, issued_at
FROM certifications
WHERE user_id = $1
ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Certification
	for rows.Next() {
		var c Certification
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Issuer, &c.IssuedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
