package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedOptions struct {
	envName         string
	memberCount     int
	secondaryCount  int
	surveyCount     int
	featuredCount   int
	dropCollections bool
	randomSeed      int64
}

type collections struct {
	artworks   string
	surveys    string
	bPasswords string
	featured   string
}

type artworkDocument struct {
	Code          string     `bson:"_id"`
	ImageURL      *string    `bson:"imageUrl"`
	ImagePublicID *string    `bson:"imagePublicId"`
	Comment       string     `bson:"comment"`
	CodeType      string     `bson:"codeType"`
	Featured      bool       `bson:"featured"`
	FeaturedAt    *time.Time `bson:"featuredAt"`
	UpdatedAt     time.Time  `bson:"updatedAt"`
}

type surveyDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Age         int                `bson:"age"`
	Wallet      int                `bson:"wallet"`
	FreeComment string             `bson:"freeComment,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

type bPasswordDocument struct {
	Code      string    `bson:"_id"`
	Password  string    `bson:"password"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

var sampleComments = []string{
	"初めてのコース走行の一枚です。",
	"雨の日のレースで撮ってもらいました。",
	"新しいヘルメットのお披露目です。",
	"表彰台に上がれた記念です。",
	"整備中のマシンです。手入れが楽しい。",
	"夜間走行のライトアップが気に入っています。",
	"仲間と走った夏合宿の写真です。",
	"ベストラップを更新した日の一枚。",
}

var sampleSurveyComments = []string{
	"コースの路面がきれいで走りやすかったです。",
	"休憩スペースをもう少し広くしてほしい。",
	"スタッフの対応がとても丁寧でした。",
	"初心者向けの講習会を増やしてほしいです。",
	"",
	"更衣室のロッカーが少ないと感じました。",
	"イベントの告知をもっと早めにお願いします。",
}

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envName); err != nil {
		log.Printf("環境変数ファイルの読み込みをスキップ: %v", err)
	}

	cfg := collections{
		artworks:   envOrDefault("ARTWORK_COLLECTION", "artworks"),
		surveys:    envOrDefault("SURVEY_COLLECTION", "surveys"),
		bPasswords: envOrDefault("B_PASSWORD_COLLECTION", "b_passwords"),
		featured:   envOrDefault("FEATURED_COLLECTION", "featured"),
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "karts-club")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		dropCollections(ctx, db, cfg)
		log.Printf("既存コレクションを削除しました")
	}

	if err := ensureIndexes(ctx, db, cfg); err != nil {
		log.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))

	artworkDocs := generateArtworks(rng, opts.memberCount, opts.secondaryCount, opts.featuredCount)
	if err := insertMany(ctx, db.Collection(cfg.artworks), toAnySlice(artworkDocs)); err != nil {
		log.Fatalf("作品データの挿入に失敗しました: %v", err)
	}

	passwordDocs := generateBPasswords(rng, opts.secondaryCount)
	if len(passwordDocs) > 0 {
		if err := insertMany(ctx, db.Collection(cfg.bPasswords), toAnySlice(passwordDocs)); err != nil {
			log.Fatalf("B パスワードの挿入に失敗しました: %v", err)
		}
	}

	surveyDocs := generateSurveys(rng, opts.surveyCount)
	if len(surveyDocs) > 0 {
		if err := insertMany(ctx, db.Collection(cfg.surveys), toAnySlice(surveyDocs)); err != nil {
			log.Fatalf("アンケートデータの挿入に失敗しました: %v", err)
		}
	}

	log.Printf("Seed 完了: artworks=%d bPasswords=%d surveys=%d",
		len(artworkDocs), len(passwordDocs), len(surveyDocs))
	log.Printf("Mongo: %s / %s (env=%s)", mongoURI, dbName, opts.envName)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "env 内の env ファイル名 (例: local, staging)")
	flag.IntVar(&opts.memberCount, "members", 12, "生成する M コード会員数")
	flag.IntVar(&opts.secondaryCount, "secondaries", 5, "生成する B コード会員数")
	flag.IntVar(&opts.surveyCount, "surveys", 40, "生成するアンケート件数")
	flag.IntVar(&opts.featuredCount, "featured", 8, "掲載済みにする作品数")
	flag.BoolVar(&opts.dropCollections, "drop", true, "既存コレクションを削除してから投入する")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "乱数シード（再現用）")
	flag.Parse()

	if opts.memberCount <= 0 {
		log.Fatal("members は 1 以上を指定してください")
	}
	if opts.secondaryCount < 0 {
		opts.secondaryCount = 0
	}
	if opts.surveyCount < 0 {
		opts.surveyCount = 0
	}
	if opts.featuredCount > opts.memberCount {
		opts.featuredCount = opts.memberCount
	}
	return opts
}

func loadEnvFiles(envName string) error {
	base := filepath.Clean(filepath.Join("..", "env"))
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if err := loadEnvFile(file); err != nil {
			return err
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s の読み込みに失敗しました: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func dropCollections(ctx context.Context, db *mongo.Database, cfg collections) {
	for _, name := range []string{cfg.artworks, cfg.surveys, cfg.bPasswords, cfg.featured} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			// Drop は存在しない場合も err を返すので warning ログにとどめる
			log.Printf("WARN: コレクション %s の削除に失敗: %v", name, err)
		}
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database, cfg collections) error {
	artworkIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "codeType", Value: 1}, {Key: "featuredAt", Value: -1}},
			Options: options.Index().SetName("idx_artwork_featured"),
		},
	}
	if _, err := db.Collection(cfg.artworks).Indexes().CreateMany(ctx, artworkIndexes); err != nil {
		return err
	}

	if _, err := db.Collection(cfg.surveys).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: 1}},
		Options: options.Index().SetName("idx_survey_created"),
	}); err != nil {
		return err
	}

	return nil
}

func generateArtworks(rng *rand.Rand, memberCount, secondaryCount, featuredCount int) []artworkDocument {
	now := time.Now().UTC()
	docs := make([]artworkDocument, 0, memberCount+secondaryCount)

	for i := 0; i < memberCount; i++ {
		code := fmt.Sprintf("M%05d", i+1)
		doc := artworkDocument{
			Code:      code,
			Comment:   sampleComments[i%len(sampleComments)],
			CodeType:  "M",
			UpdatedAt: now.Add(-time.Duration(rng.Intn(72)) * time.Hour),
		}
		if rng.Intn(10) < 8 {
			url := fmt.Sprintf("https://res.cloudinary.com/demo/image/upload/karts-artworks/%s_%d.jpg", code, now.UnixMilli()-int64(i))
			publicID := fmt.Sprintf("karts-artworks/%s_%d", code, now.UnixMilli()-int64(i))
			doc.ImageURL = &url
			doc.ImagePublicID = &publicID
		}
		if i < featuredCount && doc.ImageURL != nil {
			featuredAt := now.Add(-time.Duration(i) * time.Hour)
			doc.Featured = true
			doc.FeaturedAt = &featuredAt
		}
		docs = append(docs, doc)
	}

	for i := 0; i < secondaryCount; i++ {
		code := fmt.Sprintf("B%05d", i+1)
		docs = append(docs, artworkDocument{
			Code:      code,
			Comment:   "",
			CodeType:  "B",
			UpdatedAt: now.Add(-time.Duration(rng.Intn(72)) * time.Hour),
		})
	}

	return docs
}

func generateBPasswords(rng *rand.Rand, secondaryCount int) []bPasswordDocument {
	now := time.Now().UTC()
	docs := make([]bPasswordDocument, 0, secondaryCount)
	for i := 0; i < secondaryCount; i++ {
		docs = append(docs, bPasswordDocument{
			Code:      fmt.Sprintf("B%05d", i+1),
			Password:  fmt.Sprintf("%04d", rng.Intn(10000)),
			UpdatedAt: now,
		})
	}
	return docs
}

func generateSurveys(rng *rand.Rand, count int) []surveyDocument {
	now := time.Now().UTC()
	docs := make([]surveyDocument, 0, count)
	for i := 0; i < count; i++ {
		docs = append(docs, surveyDocument{
			ID:          primitive.NewObjectID(),
			Age:         18 + rng.Intn(62),
			Wallet:      (5 + rng.Intn(96)) * 100,
			FreeComment: sampleSurveyComments[rng.Intn(len(sampleSurveyComments))],
			CreatedAt:   now.Add(-time.Duration(rng.Intn(24*30)) * time.Hour),
		})
	}
	return docs
}

func insertMany(ctx context.Context, col *mongo.Collection, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := col.InsertMany(ctx, docs)
	return err
}

func toAnySlice[T any](in []T) []interface{} {
	out := make([]interface{}, 0, len(in))
	for _, v := range in {
		out = append(out, v)
	}
	return out
}
