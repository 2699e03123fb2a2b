package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cohorttools/cohort-tools-api/internal/model"
)

type cohortDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	CohortSlug     string             `bson:"cohortSlug"`
	CohortName     string             `bson:"cohortName"`
	Program        string             `bson:"program"`
	Format         string             `bson:"format"`
	Campus         string             `bson:"campus"`
	StartDate      *time.Time         `bson:"startDate,omitempty"`
	EndDate        *time.Time         `bson:"endDate,omitempty"`
	InProgress     bool               `bson:"inProgress"`
	ProgramManager string             `bson:"programManager"`
	LeadTeacher    string             `bson:"leadTeacher"`
	TotalHours     int                `bson:"totalHours"`
}

func newCohortDocument(id primitive.ObjectID, c *model.Cohort) cohortDocument {
	return cohortDocument{
		ID:             id,
		CohortSlug:     c.CohortSlug,
		CohortName:     c.CohortName,
		Program:        c.Program,
		Format:         c.Format,
		Campus:         c.Campus,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		InProgress:     c.InProgress,
		ProgramManager: c.ProgramManager,
		LeadTeacher:    c.LeadTeacher,
		TotalHours:     c.TotalHours,
	}
}

func (d cohortDocument) toModel() model.Cohort {
	return model.Cohort{
		ID:             d.ID.Hex(),
		CohortSlug:     d.CohortSlug,
		CohortName:     d.CohortName,
		Program:        d.Program,
		Format:         d.Format,
		Campus:         d.Campus,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		InProgress:     d.InProgress,
		ProgramManager: d.ProgramManager,
		LeadTeacher:    d.LeadTeacher,
		TotalHours:     d.TotalHours,
	}
}

// MongoCohortRepository handles cohort persistence in MongoDB.
type MongoCohortRepository struct {
	coll *mongo.Collection
}

// NewMongoCohortRepository creates a new MongoCohortRepository.
func NewMongoCohortRepository(db *mongo.Database) *MongoCohortRepository {
	return &MongoCohortRepository{coll: db.Collection(cohortsCollection)}
}

// List returns all cohorts ordered by start date.
func (r *MongoCohortRepository) List(ctx context.Context) ([]model.Cohort, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}, {Key: "cohortSlug", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	var docs []cohortDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	cohorts := make([]model.Cohort, len(docs))
	for i, d := range docs {
		cohorts[i] = d.toModel()
	}
	return cohorts, nil
}

// GetByID retrieves a cohort by ObjectID hex string.
func (r *MongoCohortRepository) GetByID(ctx context.Context, id string) (*model.Cohort, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, ErrCohortNotFound
	}

	var doc cohortDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCohortNotFound
		}
		return nil, err
	}

	c := doc.toModel()
	return &c, nil
}

// Create inserts a cohort; the unique slug index rejects duplicates.
func (r *MongoCohortRepository) Create(ctx context.Context, cohort *model.Cohort) error {
	doc := newCohortDocument(primitive.NewObjectID(), cohort)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateCohort
		}
		return err
	}

	cohort.ID = doc.ID.Hex()
	return nil
}

// Update replaces the cohort document identified by cohort.ID.
func (r *MongoCohortRepository) Update(ctx context.Context, cohort *model.Cohort) error {
	oid, ok := parseObjectID(cohort.ID)
	if !ok {
		return ErrCohortNotFound
	}

	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, newCohortDocument(oid, cohort))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateCohort
		}
		return err
	}
	if result.MatchedCount == 0 {
		return ErrCohortNotFound
	}
	return nil
}

// Delete removes the cohort with the given ID.
func (r *MongoCohortRepository) Delete(ctx context.Context, id string) error {
	oid, ok := parseObjectID(id)
	if !ok {
		return ErrCohortNotFound
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrCohortNotFound
	}
	return nil
}
