package repository

import (
	"context"
	"fmt"

	"booking-service/data"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PropertyRepo serves the property catalog from Mongo. The catalog is
// reference data: seeded once, read-only afterwards.
type PropertyRepo struct {
	collection *mongo.Collection
	logger     *logrus.Logger
	tracer     trace.Tracer
}

func NewPropertyRepo(collection *mongo.Collection, logger *logrus.Logger, tracer trace.Tracer) *PropertyRepo {
	return &PropertyRepo{
		collection: collection,
		logger:     logger,
		tracer:     tracer,
	}
}

// Seed upserts the fixed catalog so restarts do not duplicate entries.
func (pr *PropertyRepo) Seed(ctx context.Context, properties data.Properties) error {
	ctx, span := pr.tracer.Start(ctx, "PropertyRepo.Seed")
	defer span.End()

	for _, property := range properties {
		filter := bson.M{"_id": property.ID}
		update := bson.M{"$set": property}
		_, err := pr.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			pr.logger.WithFields(logrus.Fields{"path": "repository/property"}).Error(err)
			return err
		}
	}
	return nil
}

func (pr *PropertyRepo) GetAll(ctx context.Context) (data.Properties, error) {
	ctx, span := pr.tracer.Start(ctx, "PropertyRepo.GetAll")
	defer span.End()

	cursor, err := pr.collection.Find(ctx, bson.M{})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	var properties data.Properties
	if err = cursor.All(ctx, &properties); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return properties, nil
}

func (pr *PropertyRepo) GetByID(ctx context.Context, id string) (*data.Property, error) {
	ctx, span := pr.tracer.Start(ctx, "PropertyRepo.GetByID")
	defer span.End()

	var property data.Property
	err := pr.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("property %q not found", id)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &property, nil
}
