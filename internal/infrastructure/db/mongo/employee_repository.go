package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sigcpef/personnel-api/internal/core/domain"
	"github.com/sigcpef/personnel-api/internal/core/ports"
)

// EmployeeRepository implements ports.EmployeeRepository using MongoDB.
type EmployeeRepository struct {
	db DatabaseProvider
}

func NewEmployeeRepository(db DatabaseProvider) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

type mongoEmployee struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Nombre             string             `bson:"nombre"`
	Apellido           string             `bson:"apellido"`
	CI                 string             `bson:"ci"`
	FechaNacimiento    *time.Time         `bson:"fecha_nacimiento,omitempty"`
	Rango              string             `bson:"rango,omitempty"`
	Cargo              string             `bson:"cargo,omitempty"`
	Unidad             string             `bson:"unidad,omitempty"`
	Telefono           string             `bson:"telefono,omitempty"`
	EmailInstitucional string             `bson:"email_institucional,omitempty"`
	Direccion          string             `bson:"direccion,omitempty"`
	FotoURL            string             `bson:"foto_url,omitempty"`
	Estado             string             `bson:"estado"`
	CreatedAt          time.Time          `bson:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at"`
}

// summaryProjection mirrors domain.EmployeeSummary.
var summaryProjection = bson.M{
	"nombre": 1, "apellido": 1, "ci": 1, "rango": 1, "cargo": 1, "unidad": 1, "estado": 1,
}

func (r *EmployeeRepository) coll(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.db.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(employeesCollection), nil
}

func (r *EmployeeRepository) List(ctx context.Context, filter ports.EmployeeFilter) ([]*domain.Employee, error) {
	docs, err := r.find(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Employee, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *EmployeeRepository) Summaries(ctx context.Context, filter ports.EmployeeFilter) ([]domain.EmployeeSummary, error) {
	docs, err := r.find(ctx, filter, summaryProjection)
	if err != nil {
		return nil, err
	}
	out := make([]domain.EmployeeSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toSummary())
	}
	return out, nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	var doc mongoEmployee
	if err := coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	doc := fromDomainEmployee(e)
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, patch ports.EmployeePatch) (*domain.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	set := patchToSet(patch)
	set["updated_at"] = time.Now().UTC()

	var doc mongoEmployee
	err = coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) (*domain.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	var doc mongoEmployee
	if err := coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("delete employee: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EmployeeRepository) find(ctx context.Context, filter ports.EmployeeFilter, projection bson.M) ([]mongoEmployee, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if projection != nil {
		opts.SetProjection(projection)
	}
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cur, err := coll.Find(ctx, searchFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoEmployee
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}
	return docs, nil
}

// searchFilter matches the query literally (regex metacharacters escaped)
// and case-insensitively.
func searchFilter(f ports.EmployeeFilter) bson.M {
	if f.Query == "" {
		return bson.M{}
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
	fields := []string{"nombre", "apellido", "ci"}
	if f.IncludeUnit {
		fields = append(fields, "unidad")
	}
	or := make(bson.A, 0, len(fields))
	for _, field := range fields {
		or = append(or, bson.M{field: re})
	}
	return bson.M{"$or": or}
}

func patchToSet(p ports.EmployeePatch) bson.M {
	set := bson.M{}
	fields := map[string]*string{
		"nombre":              p.Nombre,
		"apellido":            p.Apellido,
		"ci":                  p.CI,
		"rango":               p.Rango,
		"cargo":               p.Cargo,
		"unidad":              p.Unidad,
		"telefono":            p.Telefono,
		"email_institucional": p.EmailInstitucional,
		"direccion":           p.Direccion,
		"foto_url":            p.FotoURL,
	}
	for key, v := range fields {
		if v != nil {
			set[key] = *v
		}
	}
	if p.Estado != nil {
		set["estado"] = string(*p.Estado)
	}
	return set
}

func fromDomainEmployee(e *domain.Employee) mongoEmployee {
	return mongoEmployee{
		Nombre:             e.Nombre,
		Apellido:           e.Apellido,
		CI:                 e.CI,
		FechaNacimiento:    e.FechaNacimiento,
		Rango:              e.Rango,
		Cargo:              e.Cargo,
		Unidad:             e.Unidad,
		Telefono:           e.Telefono,
		EmailInstitucional: e.EmailInstitucional,
		Direccion:          e.Direccion,
		FotoURL:            e.FotoURL,
		Estado:             string(e.Estado),
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func (d mongoEmployee) toDomain() *domain.Employee {
	return &domain.Employee{
		ID:                 d.ID.Hex(),
		Nombre:             d.Nombre,
		Apellido:           d.Apellido,
		CI:                 d.CI,
		FechaNacimiento:    d.FechaNacimiento,
		Rango:              d.Rango,
		Cargo:              d.Cargo,
		Unidad:             d.Unidad,
		Telefono:           d.Telefono,
		EmailInstitucional: d.EmailInstitucional,
		Direccion:          d.Direccion,
		FotoURL:            d.FotoURL,
		Estado:             domain.EmployeeStatus(d.Estado),
		CreatedAt:          d.CreatedAt.UTC(),
		UpdatedAt:          d.UpdatedAt.UTC(),
	}
}

func (d mongoEmployee) toSummary() domain.EmployeeSummary {
	return domain.EmployeeSummary{
		ID:       d.ID.Hex(),
		Nombre:   d.Nombre,
		Apellido: d.Apellido,
		CI:       d.CI,
		Rango:    d.Rango,
		Cargo:    d.Cargo,
		Unidad:   d.Unidad,
		Estado:   domain.EmployeeStatus(d.Estado),
	}
}
