package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sigcpef/personnel-api/internal/core/domain"
)

// SanctionRepository implements ports.SanctionRepository using MongoDB.
type SanctionRepository struct {
	db DatabaseProvider
}

func NewSanctionRepository(db DatabaseProvider) *SanctionRepository {
	return &SanctionRepository{db: db}
}

type mongoSanction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Funcionario primitive.ObjectID `bson:"funcionario"`
	Tipo        string             `bson:"tipo"`
	Descripcion string             `bson:"descripcion"`
	Fecha       time.Time          `bson:"fecha"`
	Sancionante string             `bson:"sancionante,omitempty"`
	Estado      string             `bson:"estado"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`

	// Populated by the $lookup stage in List.
	Employee *mongoEmployee `bson:"funcionario_doc,omitempty"`
}

func (r *SanctionRepository) coll(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.db.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(sanctionsCollection), nil
}

// List returns sanctions newest first with the employee summary joined in.
// An unparseable employeeID matches nothing.
func (r *SanctionRepository) List(ctx context.Context, employeeID string) ([]*domain.Sanction, error) {
	match := bson.M{}
	if employeeID != "" {
		oid, err := primitive.ObjectIDFromHex(employeeID)
		if err != nil {
			return []*domain.Sanction{}, nil
		}
		match["funcionario"] = oid
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: employeesCollection},
			{Key: "localField", Value: "funcionario"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "funcionario_doc"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$funcionario_doc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list sanctions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoSanction
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode sanctions: %w", err)
	}

	out := make([]*domain.Sanction, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *SanctionRepository) Create(ctx context.Context, s *domain.Sanction) (*domain.Sanction, error) {
	employeeOID, err := primitive.ObjectIDFromHex(s.EmployeeID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	doc := mongoSanction{
		Funcionario: employeeOID,
		Tipo:        s.Tipo,
		Descripcion: s.Descripcion,
		Fecha:       s.Fecha,
		Sancionante: s.Sancionante,
		Estado:      string(s.Estado),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert sanction: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (d mongoSanction) toDomain() *domain.Sanction {
	s := &domain.Sanction{
		ID:          d.ID.Hex(),
		EmployeeID:  d.Funcionario.Hex(),
		Tipo:        d.Tipo,
		Descripcion: d.Descripcion,
		Fecha:       d.Fecha.UTC(),
		Sancionante: d.Sancionante,
		Estado:      domain.SanctionStatus(d.Estado),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.Employee != nil {
		summary := d.Employee.toSummary()
		s.Employee = &summary
	}
	return s
}
