package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/worktrack/worktrack-api/internal/core/domain"
)

const collectionTasks = "tasks"

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection(collectionTasks)}
}

type mongoTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	TaskStatus  string             `bson:"task_status"`
	ProjectID   string             `bson:"project_id"`
	AssignedTo  string             `bson:"assigned_to,omitempty"`
	Status      string             `bson:"status"`
	Version     int64              `bson:"version"`
	CreatedBy   string             `bson:"created_by,omitempty"`
	UpdatedBy   string             `bson:"updated_by,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (mt *mongoTask) toDomain() *domain.Task {
	return &domain.Task{
		ID:          mt.ID.Hex(),
		Title:       mt.Title,
		Description: mt.Description,
		TaskStatus:  domain.TaskStatus(mt.TaskStatus),
		ProjectID:   mt.ProjectID,
		AssignedTo:  mt.AssignedTo,
		Status:      domain.Status(mt.Status),
		Version:     mt.Version,
		CreatedBy:   mt.CreatedBy,
		UpdatedBy:   mt.UpdatedBy,
		CreatedAt:   mt.CreatedAt,
		UpdatedAt:   mt.UpdatedAt,
	}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoTask{
		Title:       task.Title,
		Description: task.Description,
		TaskStatus:  string(task.TaskStatus),
		ProjectID:   task.ProjectID,
		AssignedTo:  task.AssignedTo,
		Status:      string(task.Status),
		Version:     1,
		CreatedBy:   task.CreatedBy,
		UpdatedBy:   task.UpdatedBy,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *TaskRepository) FindActiveByID(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, activeOnly(bson.M{"_id": oid}))
}

func (r *TaskRepository) FindActiveByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, activeOnly(bson.M{"project_id": projectID}))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cur.Close(ctx)

	var tasks []*domain.Task
	for cur.Next(ctx) {
		var mt mongoTask
		if err := cur.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, mt.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// Update is version-guarded; see UserRepository.Update.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(task.ID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	filter := includingDeleted(bson.M{"_id": oid, "version": task.Version})
	update := bson.M{
		"$set": bson.M{
			"title":       task.Title,
			"description": task.Description,
			"task_status": string(task.TaskStatus),
			"assigned_to": task.AssignedTo,
			"status":      string(task.Status),
			"updated_by":  task.UpdatedBy,
			"updated_at":  task.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	var mt mongoTask
	err = r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&mt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, r.versionConflictOrMissing(ctx, oid)
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *TaskRepository) versionConflictOrMissing(ctx context.Context, oid primitive.ObjectID) error {
	err := r.col.FindOne(ctx, includingDeleted(bson.M{"_id": oid})).Err()
	if err == nil {
		return domain.ErrVersionConflict
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("check task version: %w", err)
}

func (r *TaskRepository) findOne(ctx context.Context, filter bson.M) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoTask
	if err := r.col.FindOne(ctx, filter).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return mt.toDomain(), nil
}

// EnsureIndexes creates the lookup indexes for the tasks collection.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
