package models

import "time"

// TickerType is the asset class of a ticker.
type TickerType string

const (
	TickerTypeStock  TickerType = "stock"
	TickerTypeCrypto TickerType = "crypto"
)

// Valid reports whether t is one of the known asset classes.
func (t TickerType) Valid() bool {
	return t == TickerTypeStock || t == TickerTypeCrypto
}

// Ticker is a tradable symbol. (Symbol, Type) is unique.
type Ticker struct {
	ID        uint       `json:"tickerId" gorm:"column:ticker_id;primaryKey;autoIncrement"`
	Symbol    string     `json:"symbol" gorm:"size:32;not null;uniqueIndex:tickers_symbol_type_uq,priority:1;index:tickers_symbol_idx"`
	Type      TickerType `json:"type" gorm:"column:ticker_type;size:16;not null;uniqueIndex:tickers_symbol_type_uq,priority:2;index:tickers_type_idx"`
	CreatedAt time.Time  `json:"createdAt"`

	// Referenced tickers cannot be deleted.
	Watchers   []WatchlistEntry         `json:"-" gorm:"foreignKey:TickerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Sentiments []ArticleTickerSentiment `json:"-" gorm:"foreignKey:TickerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for the Ticker model.
func (Ticker) TableName() string {
	return "tickers"
}
