package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/sngm3741/karts-club-services/api/internal/member/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BPasswordRepository は B コード別パスワードを MongoDB で扱う実装リポジトリ。
type BPasswordRepository struct {
	bpasswords *mongo.Collection
}

// NewBPasswordRepository は b_passwords コレクションを束縛したリポジトリを生成する。
func NewBPasswordRepository(db *mongo.Database, collectionName string) *BPasswordRepository {
	return &BPasswordRepository{bpasswords: db.Collection(collectionName)}
}

// Find はコードの登録パスワードを返す。未登録は found=false で表現し、エラーにはしない。
func (r *BPasswordRepository) Find(ctx context.Context, code domain.LoginCode) (string, bool, error) {
	var doc BPasswordDocument
	err := r.bpasswords.FindOne(ctx, bson.M{"_id": code.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.Password, true, nil
}

// Save はパスワードを merge-upsert で登録する。updatedAt は毎回スタンプする。
func (r *BPasswordRepository) Save(ctx context.Context, code domain.LoginCode, password string) error {
	set := bson.M{
		"password":  password,
		"updatedAt": time.Now().UTC(),
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.bpasswords.UpdateByID(ctx, code.String(), bson.M{"$set": set}, opts)
	return err
}
