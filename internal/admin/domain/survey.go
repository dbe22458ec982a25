package domain

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"
)

// SurveyEntry はアンケート 1 件分。追記専用で、個別の更新・削除はない。
// CreatedAt は書き込み時にサーバー側で採番され、一覧の並び順キーになる。
type SurveyEntry struct {
	ID          string
	Age         int
	Wallet      int
	FreeComment string
	CreatedAt   time.Time
}

// AgeBucket は年齢ヒストグラムの固定区分。Min ≤ age ≤ Max で最初に一致した区分に数える。
type AgeBucket struct {
	Label string
	Min   int
	Max   int
}

// AgeBuckets は集計画面の固定区分。
var AgeBuckets = []AgeBucket{
	{Label: "0-39", Min: 0, Max: 39},
	{Label: "40-64", Min: 40, Max: 64},
	{Label: "65+", Min: 65, Max: math.MaxInt},
}

// Summary はアンケート全件から導出する集計値。
// MeanAge は小数第 1 位、MeanWallet は整数へ丸める。
type Summary struct {
	Count      int
	MeanAge    float64
	MeanWallet int
	Histogram  map[string]int
}

// Summarize は現在の全エントリから集計を再計算する純粋関数。
// 増分集計は持たず、毎回全件を舐める。
func Summarize(entries []SurveyEntry) Summary {
	histogram := make(map[string]int, len(AgeBuckets))
	for _, bucket := range AgeBuckets {
		histogram[bucket.Label] = 0
	}

	summary := Summary{Count: len(entries), Histogram: histogram}
	if len(entries) == 0 {
		return summary
	}

	ages := make([]float64, 0, len(entries))
	wallets := make([]float64, 0, len(entries))
	for _, entry := range entries {
		ages = append(ages, float64(entry.Age))
		wallets = append(wallets, float64(entry.Wallet))
		for _, bucket := range AgeBuckets {
			if entry.Age >= bucket.Min && entry.Age <= bucket.Max {
				histogram[bucket.Label]++
				break
			}
		}
	}

	meanAge, _ := stats.Mean(ages)
	meanWallet, _ := stats.Mean(wallets)
	summary.MeanAge = math.Round(meanAge*10) / 10
	summary.MeanWallet = int(math.Round(meanWallet))
	return summary
}
