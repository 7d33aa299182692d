package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/membership-service/internal/domain"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

const applicationColumns = `
        a.id, a.user_id, a.organization_name, a.year_established, a.registration_number,
        a.organization_type, a.membership_tier, a.sector_focus, a.employees_local, a.employees_global,
        a.primary_contact_name, a.job_title, a.contact_email, a.phone, a.website, a.address,
        a.nominated_representative, a.position, a.alternate_representative, a.authorized_signatory,
        a.representative_name, a.date_signed,
        a.agrees_constitution, a.agrees_code_of_conduct, a.commits_participation, a.allows_logo_display,
        a.registration_certificate, a.company_profile, a.logo, a.brochure, a.signature_image,
        a.status, a.remarks, a.version, a.created_at, a.updated_at`

// ApplicationRepository defines persistence access for onboarding
// applications. Methods that touch the owner's stage run both writes in
// a single transaction so status and stage cannot drift apart.
type ApplicationRepository interface {
	// Create inserts the application and advances the owner's stage to
	// Details Submitted atomically. A second application for the same
	// user fails with a conflict.
	Create(ctx context.Context, app *domain.Application) error
	Update(ctx context.Context, app *domain.Application) error
	// UpdateStatus persists status/remarks and the derived owner stage in
	// one transaction, guarded by an optimistic version check.
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, remarks string, stage domain.Stage, expectedVersion int) (*domain.Application, error)
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Application, error)
	ListWithOwners(ctx context.Context) ([]domain.ApplicationWithOwner, error)
	GetWithOwner(ctx context.Context, id string) (*domain.ApplicationWithOwner, error)
	// Delete removes the application and resets the owner's stage to New
	// Account in one transaction.
	Delete(ctx context.Context, id string) error
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository returns a Postgres-backed implementation.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO applications (
            user_id, organization_name, year_established, registration_number,
            organization_type, membership_tier, sector_focus, employees_local, employees_global,
            primary_contact_name, job_title, contact_email, phone, website, address,
            nominated_representative, position, alternate_representative, authorized_signatory,
            representative_name, date_signed,
            agrees_constitution, agrees_code_of_conduct, commits_participation, allows_logo_display,
            registration_certificate, company_profile, logo, brochure, signature_image,
            status, remarks)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,
                $22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32)
        RETURNING id, version, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		app.UserID, app.OrganizationName, app.YearEstablished, app.RegistrationNumber,
		app.OrganizationType, app.MembershipTier, app.SectorFocus, app.EmployeesLocal, app.EmployeesGlobal,
		app.PrimaryContactName, app.JobTitle, app.ContactEmail, app.Phone, app.Website, app.Address,
		app.NominatedRepresentative, app.Position, app.AlternateRepresentative, app.AuthorizedSignatory,
		app.RepresentativeName, app.DateSigned,
		app.AgreesConstitution, app.AgreesCodeOfConduct, app.CommitsParticipation, app.AllowsLogoDisplay,
		app.Documents.RegistrationCertificate, app.Documents.CompanyProfile, app.Documents.Logo,
		app.Documents.Brochure, app.Documents.SignatureImage,
		app.Status, app.Remarks,
	).Scan(&app.ID, &app.Version, &app.CreatedAt, &app.UpdatedAt)
	if isUniqueViolation(err) {
		return apperrors.NewConflict("an application already exists for this user", nil)
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET stage=$1, updated_at=NOW() WHERE id=$2`,
		domain.StageDetailsSubmitted, app.UserID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *applicationRepository) Update(ctx context.Context, app *domain.Application) error {
	const query = `
        UPDATE applications SET
            organization_name=$1, year_established=$2, registration_number=$3,
            organization_type=$4, membership_tier=$5, sector_focus=$6,
            employees_local=$7, employees_global=$8,
            primary_contact_name=$9, job_title=$10, contact_email=$11, phone=$12, website=$13, address=$14,
            nominated_representative=$15, position=$16, alternate_representative=$17, authorized_signatory=$18,
            representative_name=$19, date_signed=$20,
            agrees_constitution=$21, agrees_code_of_conduct=$22, commits_participation=$23, allows_logo_display=$24,
            registration_certificate=$25, company_profile=$26, logo=$27, brochure=$28, signature_image=$29,
            updated_at=NOW()
        WHERE id=$30`

	cmd, err := r.pool.Exec(ctx, query,
		app.OrganizationName, app.YearEstablished, app.RegistrationNumber,
		app.OrganizationType, app.MembershipTier, app.SectorFocus,
		app.EmployeesLocal, app.EmployeesGlobal,
		app.PrimaryContactName, app.JobTitle, app.ContactEmail, app.Phone, app.Website, app.Address,
		app.NominatedRepresentative, app.Position, app.AlternateRepresentative, app.AuthorizedSignatory,
		app.RepresentativeName, app.DateSigned,
		app.AgreesConstitution, app.AgreesCodeOfConduct, app.CommitsParticipation, app.AllowsLogoDisplay,
		app.Documents.RegistrationCertificate, app.Documents.CompanyProfile, app.Documents.Logo,
		app.Documents.Brochure, app.Documents.SignatureImage,
		app.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, remarks string, stage domain.Stage, expectedVersion int) (*domain.Application, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        UPDATE applications AS a
        SET status=$1, remarks=$2, version=version+1, updated_at=NOW()
        WHERE a.id=$3 AND a.version=$4
        RETURNING` + applicationColumns

	app, err := scanApplication(tx.QueryRow(ctx, query, status, remarks, id, expectedVersion))
	if err == pgx.ErrNoRows {
		// Distinguish a missing row from a stale version.
		var exists bool
		if checkErr := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM applications WHERE id=$1)`, id).Scan(&exists); checkErr != nil {
			return nil, checkErr
		}
		if exists {
			return nil, apperrors.NewConflict("application was modified concurrently", nil)
		}
		return nil, pgx.ErrNoRows
	}
	if err != nil {
		return nil, err
	}

	if stage != "" {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET stage=$1, updated_at=NOW() WHERE id=$2`,
			stage, app.UserID,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	const query = `SELECT` + applicationColumns + ` FROM applications a WHERE a.id=$1`
	return scanApplication(r.pool.QueryRow(ctx, query, id))
}

func (r *applicationRepository) GetByUserID(ctx context.Context, userID string) (*domain.Application, error) {
	const query = `SELECT` + applicationColumns + ` FROM applications a WHERE a.user_id=$1`
	return scanApplication(r.pool.QueryRow(ctx, query, userID))
}

func (r *applicationRepository) ListWithOwners(ctx context.Context) ([]domain.ApplicationWithOwner, error) {
	const query = `
        SELECT` + applicationColumns + `, u.first_name, u.last_name, u.email
        FROM applications a
        JOIN users u ON u.id = a.user_id
        ORDER BY a.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.ApplicationWithOwner
	for rows.Next() {
		item, err := scanApplicationWithOwner(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *item)
	}
	return results, rows.Err()
}

func (r *applicationRepository) GetWithOwner(ctx context.Context, id string) (*domain.ApplicationWithOwner, error) {
	const query = `
        SELECT` + applicationColumns + `, u.first_name, u.last_name, u.email
        FROM applications a
        JOIN users u ON u.id = a.user_id
        WHERE a.id=$1`

	return scanApplicationWithOwner(r.pool.QueryRow(ctx, query, id))
}

func (r *applicationRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var userID string
	err = tx.QueryRow(ctx, `DELETE FROM applications WHERE id=$1 RETURNING user_id`, id).Scan(&userID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET stage=$1, updated_at=NOW() WHERE id=$2`,
		domain.StageNewAccount, userID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	if err := row.Scan(applicationFields(&app)...); err != nil {
		return nil, err
	}
	return &app, nil
}

func scanApplicationWithOwner(row pgx.Row) (*domain.ApplicationWithOwner, error) {
	var item domain.ApplicationWithOwner
	fields := append(applicationFields(&item.Application),
		&item.OwnerFirstName, &item.OwnerLastName, &item.OwnerEmail)
	if err := row.Scan(fields...); err != nil {
		return nil, err
	}
	return &item, nil
}

func applicationFields(app *domain.Application) []any {
	return []any{
		&app.ID, &app.UserID, &app.OrganizationName, &app.YearEstablished, &app.RegistrationNumber,
		&app.OrganizationType, &app.MembershipTier, &app.SectorFocus, &app.EmployeesLocal, &app.EmployeesGlobal,
		&app.PrimaryContactName, &app.JobTitle, &app.ContactEmail, &app.Phone, &app.Website, &app.Address,
		&app.NominatedRepresentative, &app.Position, &app.AlternateRepresentative, &app.AuthorizedSignatory,
		&app.RepresentativeName, &app.DateSigned,
		&app.AgreesConstitution, &app.AgreesCodeOfConduct, &app.CommitsParticipation, &app.AllowsLogoDisplay,
		&app.Documents.RegistrationCertificate, &app.Documents.CompanyProfile, &app.Documents.Logo,
		&app.Documents.Brochure, &app.Documents.SignatureImage,
		&app.Status, &app.Remarks, &app.Version, &app.CreatedAt, &app.UpdatedAt,
	}
}
