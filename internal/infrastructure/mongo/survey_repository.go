package mongo

import (
	"context"
	"time"

	admindomain "github.com/sngm3741/karts-club-services/api/internal/admin/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SurveyRepository はアンケートコレクションを MongoDB で扱う実装リポジトリ。
type SurveyRepository struct {
	surveys *mongo.Collection
}

// NewSurveyRepository はアンケートコレクションを束縛したリポジトリを生成する。
func NewSurveyRepository(db *mongo.Database, collectionName string) *SurveyRepository {
	return &SurveyRepository{surveys: db.Collection(collectionName)}
}

// Insert は 1 件追加する。ID と createdAt はここで採番し、引数へ書き戻す。
func (r *SurveyRepository) Insert(ctx context.Context, entry *admindomain.SurveyEntry) error {
	doc := SurveyDocument{
		ID:          primitive.NewObjectID(),
		Age:         entry.Age,
		Wallet:      entry.Wallet,
		FreeComment: entry.FreeComment,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := r.surveys.InsertOne(ctx, doc); err != nil {
		return err
	}
	entry.ID = doc.ID.Hex()
	entry.CreatedAt = doc.CreatedAt
	return nil
}

// FindAllOrdered は全件を createdAt 昇順で返す。
func (r *SurveyRepository) FindAllOrdered(ctx context.Context) ([]admindomain.SurveyEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.surveys.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]admindomain.SurveyEntry, 0)
	for cursor.Next(ctx) {
		var doc SurveyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		entries = append(entries, admindomain.SurveyEntry{
			ID:          doc.ID.Hex(),
			Age:         doc.Age,
			Wallet:      doc.Wallet,
			FreeComment: doc.FreeComment,
			CreatedAt:   doc.CreatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteAll は単一のバッチ削除で全件を消す。途中状態は呼び出し側から観測されない。
func (r *SurveyRepository) DeleteAll(ctx context.Context) error {
	_, err := r.surveys.DeleteMany(ctx, bson.D{})
	return err
}
