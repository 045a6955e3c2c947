package models

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"

	"clinicore/internal/identity/credential"
	"clinicore/internal/identity/pesel"
	dErrors "clinicore/pkg/domain-errors"
)

// Person holds the validated fields shared by patients, doctors, and nurses.
//
// Invariants:
//   - FirstName and LastName are non-blank
//   - Age is at or above the role-specific minimum
//   - NationalID is eleven digits, numeric, and checksum-valid
//   - Credential is owned exclusively by this person
//
// A Person is immutable once built: constructors either return a fully valid
// value or one specific error, and nothing in this package mutates a person
// afterwards. There is no partially-constructed observable state.
type Person struct {
	FirstName  string
	LastName   string
	Age        int
	NationalID string
	Credential credential.Credential
}

// PersonParams carries the raw field values a builder validates. Exactly one
// of Password or the Salt/Hash pair must be supplied: Password generates a
// fresh credential, Salt+Hash reconstructs one from persistence.
type PersonParams struct {
	FirstName  string
	LastName   string
	Age        int
	NationalID string // generated when empty
	Password   string
	Salt       string
	Hash       string
}

// newPerson runs the shared validation sequence. The order is part of the
// contract: name, then age, then identity, so callers observe a stable error
// precedence. birthDate is zero for roles whose identifier encodes no
// verifiable date.
func newPerson(p PersonParams, minAge int, birthDate time.Time) (Person, error) {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return Person{}, dErrors.New(dErrors.CodeInvalidName, "first and last name are required")
	}
	if p.Age < minAge {
		return Person{}, dErrors.Newf(dErrors.CodeInvalidAge, "age must be at least %d", minAge)
	}

	nationalID := p.NationalID
	if nationalID == "" {
		generated, err := generateNationalID(birthDate, p.Age)
		if err != nil {
			return Person{}, err
		}
		nationalID = generated
	}
	if err := validateNationalID(nationalID, birthDate); err != nil {
		return Person{}, err
	}

	cred, err := buildCredential(p)
	if err != nil {
		return Person{}, err
	}

	return Person{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Age:        p.Age,
		NationalID: nationalID,
		Credential: cred,
	}, nil
}

func validateNationalID(id string, birthDate time.Time) error {
	if len(id) != pesel.Length {
		return dErrors.Newf(dErrors.CodeInvalidIdentity, "national identifier must be %d digits", pesel.Length)
	}
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return dErrors.New(dErrors.CodeInvalidIdentity, "national identifier must be numeric")
	}
	if birthDate.IsZero() {
		if !pesel.HasValidChecksum(id) {
			return dErrors.New(dErrors.CodeInvalidIdentity, "national identifier checksum is invalid")
		}
		return nil
	}
	if !pesel.IsValidNationalID(id, birthDate) {
		return dErrors.New(dErrors.CodeInvalidIdentity, "national identifier does not match birth date")
	}
	return nil
}

// generateNationalID builds a checksum-valid identifier when the caller
// supplied none. Without a birth date the encoded date is derived from the
// age, which keeps generated identifiers internally consistent.
func generateNationalID(birthDate time.Time, age int) (string, error) {
	if birthDate.IsZero() {
		now := time.Now().UTC()
		birthDate = time.Date(now.Year()-age, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "identifier serial generation failed")
	}
	id, err := pesel.Generate(birthDate, int(n.Int64()))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInvalidIdentity, "cannot generate national identifier")
	}
	return id, nil
}

func buildCredential(p PersonParams) (credential.Credential, error) {
	hasPlaintext := p.Password != ""
	hasPersisted := p.Salt != "" || p.Hash != ""
	switch {
	case hasPlaintext && hasPersisted:
		return credential.Credential{}, dErrors.New(dErrors.CodeInvalidInput,
			"supply either a password or a persisted salt+hash pair, not both")
	case hasPlaintext:
		return credential.Generate(p.Password)
	case p.Salt != "" && p.Hash != "":
		return credential.FromPersisted(p.Salt, p.Hash), nil
	default:
		return credential.Credential{}, dErrors.New(dErrors.CodeInvalidInput,
			"credential material is required")
	}
}
