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

// ArtworkRepository は作品ドキュメントを MongoDB で扱う実装リポジトリ。
type ArtworkRepository struct {
	artworks *mongo.Collection
}

// NewArtworkRepository は作品コレクションを束縛したリポジトリを生成する。
func NewArtworkRepository(db *mongo.Database, collectionName string) *ArtworkRepository {
	return &ArtworkRepository{artworks: db.Collection(collectionName)}
}

// FindByCode はコードで 1 件取得する。存在しない場合は (nil, nil) を返す。
func (r *ArtworkRepository) FindByCode(ctx context.Context, code domain.LoginCode) (*domain.Artwork, error) {
	var doc ArtworkDocument
	err := r.artworks.FindOne(ctx, bson.M{"_id": code.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	artwork := mapArtworkDocument(doc)
	return &artwork, nil
}

// Save は差分だけを $set する merge-upsert。未作成のコードはこの時点で暗黙に作られる。
// updatedAt と codeType は毎回スタンプする。
func (r *ArtworkRepository) Save(ctx context.Context, code domain.LoginCode, role domain.Role, patch domain.ArtworkPatch) error {
	set := bson.M{
		"codeType":  string(role),
		"updatedAt": time.Now().UTC(),
	}

	if patch.ClearImage {
		set["imageUrl"] = nil
		set["imagePublicId"] = nil
	} else {
		if patch.ImageURL != nil {
			set["imageUrl"] = *patch.ImageURL
		}
		if patch.ImagePublicID != nil {
			set["imagePublicId"] = *patch.ImagePublicID
		}
	}
	if patch.Comment != nil {
		set["comment"] = *patch.Comment
	}
	if patch.Featured != nil {
		set["featured"] = *patch.Featured
	}
	if patch.FeaturedAt != nil {
		set["featuredAt"] = *patch.FeaturedAt
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.artworks.UpdateByID(ctx, code.String(), bson.M{"$set": set}, opts)
	return err
}

// FindFeatured は featuredAt を持つ M の作品を新しい順に最大 limit 件返す。
func (r *ArtworkRepository) FindFeatured(ctx context.Context, limit int) ([]domain.Artwork, error) {
	filter := bson.M{
		"codeType":   string(domain.RolePrimary),
		"featuredAt": bson.M{"$ne": nil},
	}
	opts := options.Find().SetSort(bson.D{{Key: "featuredAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.artworks.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	artworks := make([]domain.Artwork, 0)
	for cursor.Next(ctx) {
		var doc ArtworkDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		artworks = append(artworks, mapArtworkDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return artworks, nil
}

// mapArtworkDocument は Mongo ドキュメントをドメインの Artwork へ復元する。
func mapArtworkDocument(doc ArtworkDocument) domain.Artwork {
	artwork := domain.Artwork{
		Code:       domain.LoginCode(doc.Code),
		Comment:    doc.Comment,
		Featured:   doc.Featured,
		FeaturedAt: doc.FeaturedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
	if doc.ImageURL != nil {
		artwork.ImageURL = *doc.ImageURL
	}
	if doc.ImagePublicID != nil {
		artwork.ImagePublicID = *doc.ImagePublicID
	}
	return artwork
}
