package dialect

var mysqlAggregates = []string{
	"AVG", "BIT_AND", "BIT_OR", "BIT_XOR", "COUNT", "GROUP_CONCAT",
	"JSON_ARRAYAGG", "JSON_OBJECTAGG", "MAX", "MIN",
	"STD", "STDDEV", "STDDEV_POP", "STDDEV_SAMP", "SUM",
	"VAR_POP", "VAR_SAMP", "VARIANCE",
	"APPROX_COUNT_DISTINCT", "APPROX_PERCENTILE",
}

var mysqlWindows = []string{
	"ROW_NUMBER", "RANK", "DENSE_RANK", "PERCENT_RANK", "CUME_DIST", "NTILE",
	"LAG", "LEAD", "FIRST_VALUE", "LAST_VALUE", "NTH_VALUE",
}

var mysqlNiladic = []string{
	"CURRENT_DATE", "CURRENT_TIME", "CURRENT_TIMESTAMP", "CURRENT_USER",
	"LOCALTIME", "LOCALTIMESTAMP", "UTC_DATE", "UTC_TIME", "UTC_TIMESTAMP",
}

// MySQL is the default dialect.
var MySQL = NewDialect("mysql").
	Charset("utf8mb4", "utf8mb4_0900_ai_ci").
	Aggregates(mysqlAggregates...).
	Windows(mysqlWindows...).
	Niladic(mysqlNiladic...).
	Build()

// ANSI is MySQL running with sql_mode=ANSI: "..." quotes identifiers and
// || concatenates.
var ANSI = NewDialect("ansi").
	Mode(ModeANSI).
	Charset("utf8mb4", "utf8mb4_0900_ai_ci").
	Aggregates(mysqlAggregates...).
	Windows(mysqlWindows...).
	Niladic(mysqlNiladic...).
	Build()

func init() {
	Register(MySQL)
	Register(ANSI)
}
