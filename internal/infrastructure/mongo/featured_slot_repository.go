package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sngm3741/karts-club-services/api/internal/member/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// featuredDocID はスロット方式で使う単一ドキュメントのキー。
const featuredDocID = "showcase"

// FeaturedSlotRepository はスロット方式の掲載ドキュメント（slot1, slot2, …）を扱う。
type FeaturedSlotRepository struct {
	featured *mongo.Collection
}

// NewFeaturedSlotRepository は featured コレクションを束縛したリポジトリを生成する。
func NewFeaturedSlotRepository(db *mongo.Database, collectionName string) *FeaturedSlotRepository {
	return &FeaturedSlotRepository{featured: db.Collection(collectionName)}
}

// Current はスロット順の掲載エントリを返す。ドキュメント未作成なら空。
func (r *FeaturedSlotRepository) Current(ctx context.Context) ([]domain.FeaturedArtwork, error) {
	var raw bson.Raw
	err := r.featured.FindOne(ctx, bson.M{"_id": featuredDocID}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entries := make([]domain.FeaturedArtwork, 0)
	for i := 1; ; i++ {
		value, err := raw.LookupErr(fmt.Sprintf("slot%d", i))
		if err != nil {
			break
		}
		slotRaw, ok := value.DocumentOK()
		if !ok {
			break
		}
		var slot featuredSlotEntryDocument
		if err := bson.Unmarshal(slotRaw, &slot); err != nil {
			return nil, err
		}
		entries = append(entries, domain.FeaturedArtwork{
			Code:     domain.LoginCode(slot.Code),
			ImageURL: slot.ImageURL,
			Comment:  slot.Comment,
		})
	}
	return entries, nil
}

// Replace はドキュメント全体を書き換える。渡された順で slot1 から詰め直し、余った旧スロットは消える。
func (r *FeaturedSlotRepository) Replace(ctx context.Context, entries []domain.FeaturedArtwork) error {
	doc := bson.M{
		"_id":       featuredDocID,
		"updatedAt": time.Now().UTC(),
	}
	for i, entry := range entries {
		doc[fmt.Sprintf("slot%d", i+1)] = featuredSlotEntryDocument{
			Code:     entry.Code.String(),
			ImageURL: entry.ImageURL,
			Comment:  entry.Comment,
		}
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.featured.ReplaceOne(ctx, bson.M{"_id": featuredDocID}, doc, opts)
	return err
}
