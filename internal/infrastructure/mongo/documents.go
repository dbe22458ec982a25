package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ArtworkDocument は MongoDB 上での作品スキーマ。_id はログインコードそのもの。
// imageUrl / imagePublicId は論理削除で明示的に null を書くためポインタで持つ。
type ArtworkDocument struct {
	Code          string     `bson:"_id"`
	ImageURL      *string    `bson:"imageUrl"`
	ImagePublicID *string    `bson:"imagePublicId"`
	Comment       string     `bson:"comment"`
	CodeType      string     `bson:"codeType"`
	Featured      bool       `bson:"featured"`
	FeaturedAt    *time.Time `bson:"featuredAt"`
	UpdatedAt     time.Time  `bson:"updatedAt"`
}

// SurveyDocument はアンケート 1 件分のスキーマ。キーは自動採番の ObjectID。
type SurveyDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Age         int                `bson:"age"`
	Wallet      int                `bson:"wallet"`
	FreeComment string             `bson:"freeComment"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

// BPasswordDocument は B コード別パスワードのスキーマ。_id はログインコード。
type BPasswordDocument struct {
	Code      string    `bson:"_id"`
	Password  string    `bson:"password"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// featuredSlotEntryDocument はスロット方式の掲載 1 枠分の埋め込みドキュメント。
type featuredSlotEntryDocument struct {
	Code     string `bson:"code"`
	ImageURL string `bson:"imageUrl"`
	Comment  string `bson:"comment"`
}
