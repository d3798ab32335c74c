// Package repository provides the ClickHouse and Kafka implementations of the
// domain persistence interfaces.
package repository

// Schema returns the idempotent DDL for all scanner tables. Statements are
// applied in order through clickhouse.Client.InitSchema.
func Schema(database string) []string {
	return []string{
		`CREATE DATABASE IF NOT EXISTS ` + database,

		`CREATE TABLE IF NOT EXISTS ` + database + `.opportunities (
			id UUID,
			symbol LowCardinality(String),
			ts DateTime64(3, 'UTC'),
			score_price Float64,
			score_volume Float64,
			score_volatility Float64,
			score_overall Float64,
			entry Float64,
			stop Float64,
			target1 Float64,
			target2 Float64,
			position_size_usd Float64,
			position_size_shares Int32,
			rr_ratio Float64,
			p_target Float64,
			net_expected_r Float64,
			costs_r Float64,
			slippage_bps Float64,
			features String,
			status LowCardinality(String),
			reason String,
			version LowCardinality(String)
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(ts)
		ORDER BY (symbol, ts, id)`,

		`CREATE TABLE IF NOT EXISTS ` + database + `.signal_history (
			id UUID,
			opportunity_id UUID,
			symbol LowCardinality(String),
			signal_score Float64,
			p_target Float64,
			entry Float64,
			stop Float64,
			target1 Float64,
			rr_ratio Float64,
			signal_time DateTime64(3, 'UTC'),
			outcome LowCardinality(String),
			outcome_time Nullable(DateTime64(3, 'UTC')),
			mfe Float64,
			mae Float64,
			actual_r Float64,
			notes String
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(signal_time)
		ORDER BY (symbol, signal_time, id)`,

		`CREATE TABLE IF NOT EXISTS ` + database + `.trade_journal (
			id UUID,
			symbol LowCardinality(String),
			side LowCardinality(String),
			entry_price Float64,
			exit_price Float64,
			shares Int32,
			entry_time DateTime64(3, 'UTC'),
			exit_time Nullable(DateTime64(3, 'UTC')),
			exit_reason LowCardinality(String),
			realized_r Float64,
			notes String
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(entry_time)
		ORDER BY (symbol, entry_time, id)`,
	}
}
