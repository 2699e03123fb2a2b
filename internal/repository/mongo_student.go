package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cohorttools/cohort-tools-api/internal/model"
)

type studentDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FirstName   string             `bson:"firstName"`
	LastName    string             `bson:"lastName"`
	Email       string             `bson:"email"`
	Phone       string             `bson:"phone"`
	LinkedinURL string             `bson:"linkedinUrl"`
	Languages   []string           `bson:"languages"`
	Program     string             `bson:"program"`
	Background  string             `bson:"background"`
	Image       string             `bson:"image"`
	Cohort      string             `bson:"cohort"`
	Projects    []string           `bson:"projects"`
}

func newStudentDocument(id primitive.ObjectID, s *model.Student) studentDocument {
	return studentDocument{
		ID:          id,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Email:       s.Email,
		Phone:       s.Phone,
		LinkedinURL: s.LinkedinURL,
		Languages:   nonNil(s.Languages),
		Program:     s.Program,
		Background:  s.Background,
		Image:       s.Image,
		Cohort:      s.Cohort,
		Projects:    nonNil(s.Projects),
	}
}

func (d studentDocument) toModel() model.Student {
	return model.Student{
		ID:          d.ID.Hex(),
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		Phone:       d.Phone,
		LinkedinURL: d.LinkedinURL,
		Languages:   nonNil(d.Languages),
		Program:     d.Program,
		Background:  d.Background,
		Image:       d.Image,
		Cohort:      d.Cohort,
		Projects:    nonNil(d.Projects),
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// MongoStudentRepository handles student persistence in MongoDB.
type MongoStudentRepository struct {
	coll *mongo.Collection
}

// NewMongoStudentRepository creates a new MongoStudentRepository.
func NewMongoStudentRepository(db *mongo.Database) *MongoStudentRepository {
	return &MongoStudentRepository{coll: db.Collection(studentsCollection)}
}

// List returns all students ordered by last name.
func (r *MongoStudentRepository) List(ctx context.Context) ([]model.Student, error) {
	return r.find(ctx, bson.M{})
}

// ListByCohort returns the students assigned to cohortID.
func (r *MongoStudentRepository) ListByCohort(ctx context.Context, cohortID string) ([]model.Student, error) {
	return r.find(ctx, bson.M{"cohort": cohortID})
}

// GetByID retrieves a student by ObjectID hex string.
func (r *MongoStudentRepository) GetByID(ctx context.Context, id string) (*model.Student, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, ErrStudentNotFound
	}

	var doc studentDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	s := doc.toModel()
	return &s, nil
}

// Create inserts a student; unique email and phone indexes reject duplicates.
func (r *MongoStudentRepository) Create(ctx context.Context, student *model.Student) error {
	doc := newStudentDocument(primitive.NewObjectID(), student)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateStudent
		}
		return err
	}

	student.ID = doc.ID.Hex()
	return nil
}

// Update replaces the student document identified by student.ID.
func (r *MongoStudentRepository) Update(ctx context.Context, student *model.Student) error {
	oid, ok := parseObjectID(student.ID)
	if !ok {
		return ErrStudentNotFound
	}

	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, newStudentDocument(oid, student))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateStudent
		}
		return err
	}
	if result.MatchedCount == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// Delete removes the student with the given ID.
func (r *MongoStudentRepository) Delete(ctx context.Context, id string) error {
	oid, ok := parseObjectID(id)
	if !ok {
		return ErrStudentNotFound
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrStudentNotFound
	}
	return nil
}

func (r *MongoStudentRepository) find(ctx context.Context, filter bson.M) ([]model.Student, error) {
	opts := options.Find().SetSort(bson.D{{Key: "lastName", Value: 1}, {Key: "firstName", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []studentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	students := make([]model.Student, len(docs))
	for i, d := range docs {
		students[i] = d.toModel()
	}
	return students, nil
}
