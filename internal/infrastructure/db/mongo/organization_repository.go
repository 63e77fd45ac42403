package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lexhaven/matters-api/internal/core/domain"
)

const organizationCollection = "organizations"

type MongoOrganizationRepository struct {
	coll *mongo.Collection
}

func NewOrganizationRepository(db *mongo.Database) *MongoOrganizationRepository {
	return &MongoOrganizationRepository{coll: db.Collection(organizationCollection)}
}

type mongoOrganization struct {
	ID               string   `bson:"_id"`
	Name             string   `bson:"name"`
	SubscriptionTier string   `bson:"subscription_tier"`
	Features         []string `bson:"features,omitempty"`
	IsActive         bool     `bson:"is_active"`
	DeletedAt        *int64   `bson:"deleted_at,omitempty"`
}

// FindActiveByID looks up an organization, excluding soft-deleted rows at the
// query level and inactive rows after decode. Both absent and inactive map to
// domain.ErrTenantNotFound so callers cannot tell the cases apart.
func (r *MongoOrganizationRepository) FindActiveByID(ctx context.Context, id string) (*domain.Organization, error) {
	filter := bson.M{
		"_id":        id,
		"deleted_at": bson.M{"$exists": false},
	}

	var mo mongoOrganization
	if err := r.coll.FindOne(ctx, filter).Decode(&mo); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("find organization: %w", err)
	}
	if !mo.IsActive {
		return nil, domain.ErrTenantNotFound
	}

	return &domain.Organization{
		ID:       mo.ID,
		Name:     mo.Name,
		Tier:     domain.SubscriptionTier(mo.SubscriptionTier),
		Features: mo.Features,
		Active:   mo.IsActive,
	}, nil
}
