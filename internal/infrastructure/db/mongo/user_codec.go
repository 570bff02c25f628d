package mongo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/fiapcloudgames/user-service/internal/core/domain"
)

// Field names shared by the queries and the documents below.
const (
	fieldID        = "_id"
	fieldEmail     = "email"
	fieldRole      = "role"
	fieldCreatedAt = "created_at"
)

// baseDocument is the persisted shape of domain.Account plus the role
// discriminator. Every stored user carries it.
type baseDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	BornDate     time.Time `bson:"born_date"`
	CreatedAt    time.Time `bson:"created_at"`
	Role         string    `bson:"role"`
}

type playerDocument struct {
	Base     baseDocument `bson:",inline"`
	GamerTag string       `bson:"gamer_tag"`
	Library  []string     `bson:"library"`
}

type publisherDocument struct {
	Base        baseDocument `bson:",inline"`
	CompanyName string       `bson:"company_name"`
	Website     string       `bson:"website"`
}

func toBaseDocument(a *domain.Account, role domain.Role) baseDocument {
	return baseDocument{
		ID:           a.ID,
		Name:         a.Name,
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		BornDate:     domain.NormalizeTime(a.BornDate),
		CreatedAt:    domain.NormalizeTime(a.CreatedAt),
		Role:         string(role),
	}
}

func (d baseDocument) toAccount() domain.Account {
	return domain.Account{
		ID:           d.ID,
		Name:         d.Name,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		BornDate:     d.BornDate,
		CreatedAt:    d.CreatedAt,
	}
}

// encodeUser converts a user into the document of its variant.
func encodeUser(u domain.User) (any, error) {
	switch v := u.(type) {
	case *domain.Player:
		return playerDocument{
			Base:     toBaseDocument(&v.Account, domain.RolePlayer),
			GamerTag: v.GamerTag,
			Library:  v.Library,
		}, nil
	case *domain.Publisher:
		return publisherDocument{
			Base:        toBaseDocument(&v.Account, domain.RolePublisher),
			CompanyName: v.CompanyName,
			Website:     v.Website,
		}, nil
	case nil:
		return nil, fmt.Errorf("%w: nil user", domain.ErrInvalidOperation)
	}
	return nil, fmt.Errorf("%w: %T", domain.ErrUnknownVariant, u)
}

// decodeUser reads the role discriminator first and then decodes the whole
// document into that variant. A missing or unrecognised role is an error,
// never a silent fallback to the shared fields.
func decodeUser(raw bson.Raw) (domain.User, error) {
	rv, err := raw.LookupErr(fieldRole)
	if err != nil {
		return nil, fmt.Errorf("%w: document has no role", domain.ErrUnknownVariant)
	}
	s, ok := rv.StringValueOK()
	if !ok {
		return nil, fmt.Errorf("%w: role stored as %s", domain.ErrUnknownVariant, rv.Type)
	}
	role, err := domain.ParseRole(s)
	if err != nil {
		return nil, err
	}

	switch role {
	case domain.RolePlayer:
		var doc playerDocument
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode player: %w", err)
		}
		return &domain.Player{
			Account:  doc.Base.toAccount(),
			GamerTag: doc.GamerTag,
			Library:  doc.Library,
		}, nil
	default:
		var doc publisherDocument
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode publisher: %w", err)
		}
		return &domain.Publisher{
			Account:     doc.Base.toAccount(),
			CompanyName: doc.CompanyName,
			Website:     doc.Website,
		}, nil
	}
}

// mutableFields returns the $set payload for an update: the encoded document
// minus the fields that never change after creation.
func mutableFields(u domain.User) (bson.D, error) {
	doc, err := encodeUser(u)
	if err != nil {
		return nil, err
	}
	b, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	var all bson.D
	if err := bson.Unmarshal(b, &all); err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}

	set := make(bson.D, 0, len(all))
	for _, e := range all {
		switch e.Key {
		case fieldID, fieldRole, fieldCreatedAt:
			continue
		}
		set = append(set, e)
	}
	return set, nil
}
