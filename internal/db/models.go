package db

import "time"

// TranslationLog maps translation_logs, the append-only audit ledger.
// Rows are never updated or deleted.
type TranslationLog struct {
	LogID      int64     `gorm:"column:log_id;primaryKey;autoIncrement"`
	RequestID  string    `gorm:"column:request_id;type:uuid;not null;unique"`
	Timestamp  time.Time `gorm:"column:timestamp;type:timestamptz;not null;default:now();index:idx_translation_logs_timestamp,sort:desc"`
	SourceLang string    `gorm:"column:source_lang;type:text;not null"`
	TargetLang string    `gorm:"column:target_lang;type:text;not null"`
	CharCount  int       `gorm:"column:char_count;type:integer;not null;default:0"`
	Success    bool      `gorm:"column:success;type:boolean;not null"`
	ErrorKind  *string   `gorm:"column:error_kind;type:text"`
	LatencyMS  int64     `gorm:"column:latency_ms;type:bigint;not null;default:0"`
}

func (TranslationLog) TableName() string { return "translation_logs" }
