package models

import "time"

// ConfidenceLevel grades how sure the forecast is
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "Low"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceHigh   ConfidenceLevel = "High"
)

// Recommendation is the suggested trading action
type Recommendation string

const (
	RecommendationStrongSell Recommendation = "Strong Sell"
	RecommendationSell       Recommendation = "Sell"
	RecommendationHold       Recommendation = "Hold"
	RecommendationBuy        Recommendation = "Buy"
	RecommendationStrongBuy  Recommendation = "Strong Buy"
)

// MarketSentiment is the overall mood attributed to the ticker
type MarketSentiment string

const (
	SentimentBullish MarketSentiment = "Bullish"
	SentimentBearish MarketSentiment = "Bearish"
	SentimentNeutral MarketSentiment = "Neutral"
)

// Enum value lists, in the order they are presented to the model
var (
	ConfidenceLevels = []ConfidenceLevel{ConfidenceLow, ConfidenceMedium, ConfidenceHigh}
	Recommendations  = []Recommendation{
		RecommendationStrongSell, RecommendationSell, RecommendationHold,
		RecommendationBuy, RecommendationStrongBuy,
	}
	MarketSentiments = []MarketSentiment{SentimentBullish, SentimentBearish, SentimentNeutral}
)

// Key factor count bounds for a StockReport
const (
	MinKeyFactors = 3
	MaxKeyFactors = 4
)

// StockReport is a forecast produced by the AI service for one ticker.
// Values are passed through as received once they pass validation.
type StockReport struct {
	Ticker                    string          `json:"ticker" validate:"required"`
	EstimatedIncreasing       bool            `json:"estimated_increasing"`
	EstimatedChangePercentage float64         `json:"estimated_change_percentage"`
	ConfidenceLevel           ConfidenceLevel `json:"confidence_level" validate:"required,oneof=Low Medium High"`
	TimeframeDays             int             `json:"timeframe_days" validate:"gt=0"`
	ShortSummary              string          `json:"short_summary" validate:"required"`
	KeyFactors                []string        `json:"key_factors" validate:"min=3,max=4,dive,required"`
	Recommendation            Recommendation  `json:"recommendation" validate:"required,oneof='Strong Sell' Sell Hold Buy 'Strong Buy'"`
	MarketSentiment           MarketSentiment `json:"market_sentiment" validate:"required,oneof=Bullish Bearish Neutral"`
	LastUpdate                string          `json:"last_update" validate:"required,isotime"`
}

// StockReportFields lists the JSON fields every report must carry
var StockReportFields = []string{
	"ticker",
	"estimated_increasing",
	"estimated_change_percentage",
	"confidence_level",
	"timeframe_days",
	"short_summary",
	"key_factors",
	"recommendation",
	"market_sentiment",
	"last_update",
}

// ReportSet is the outcome of one generation run
type ReportSet struct {
	RequestID     string        `json:"request_id"`
	TimeframeDays int           `json:"timeframe_days"`
	AsOf          Date          `json:"as_of"`
	GeneratedAt   time.Time     `json:"generated_at"`
	Reports       []StockReport `json:"reports"`
}
