package token

//nolint:revive // keyword constants mirror SQL spelling
const (
	keywordBeg TokenType = iota + 1000

	// Reserved keywords: never usable as unquoted identifiers.
	ADD
	ALL
	ALTER
	ANALYZE
	AND
	AS
	ASC
	BETWEEN
	BIGINT
	BINARY
	BLOB
	BOTH
	BY
	CALL
	CASCADE
	CASE
	CHANGE
	CHAR
	CHARACTER
	CHECK
	COLLATE
	COLUMN
	CONSTRAINT
	CONVERT
	CREATE
	CROSS
	CUME_DIST
	CURRENT_DATE
	CURRENT_TIME
	CURRENT_TIMESTAMP
	CURRENT_USER
	DATABASE
	DATABASES
	DECIMAL
	DEFAULT
	DELAYED
	DELETE
	DENSE_RANK
	DESC
	DESCRIBE
	DISTINCT
	DISTINCTROW
	DIV
	DOUBLE
	DROP
	DUAL
	ELSE
	ELSEIF
	ENCLOSED
	ESCAPED
	EXCEPT
	EXISTS
	EXPLAIN
	FALSE
	FETCH
	FIRST_VALUE
	FLOAT
	FOR
	FORCE
	FOREIGN
	FROM
	FULLTEXT
	GENERATED
	GRANT
	GROUP
	GROUPS
	HAVING
	HIGH_PRIORITY
	IF
	IGNORE
	IN
	INDEX
	INFILE
	INNER
	INSERT
	INT
	INTEGER
	INTERSECT
	INTERVAL
	INTO
	IS
	ITERATE
	JOIN
	KEY
	KEYS
	KILL
	LAG
	LAST_VALUE
	LATERAL
	LEAD
	LEADING
	LEAVE
	LEFT
	LIKE
	LIMIT
	LINEAR
	LINES
	LOAD
	LOCALTIME
	LOCALTIMESTAMP
	LOCK
	LONG
	LOOP
	LOW_PRIORITY
	MATCH
	MOD
	NATURAL
	NOT
	NO_WRITE_TO_BINLOG
	NTH_VALUE
	NTILE
	NULL
	NUMERIC
	OF
	ON
	OPTIMIZE
	OPTION
	OPTIONALLY
	OR
	ORDER
	OUT
	OUTER
	OUTFILE
	OVER
	PARTITION
	PERCENT_RANK
	PRIMARY
	PROCEDURE
	RANGE
	RANK
	READ
	REAL
	RECURSIVE
	REFERENCES
	REGEXP
	RELEASE
	RENAME
	REPEAT
	REPLACE
	REQUIRE
	RESTRICT
	RETURN
	REVOKE
	RIGHT
	RLIKE
	ROW
	ROWS
	ROW_NUMBER
	SCHEMA
	SCHEMAS
	SELECT
	SEPARATOR
	SET
	SHOW
	SMALLINT
	SPATIAL
	SQL_BIG_RESULT
	SQL_CALC_FOUND_ROWS
	SQL_SMALL_RESULT
	STARTING
	STORED
	STRAIGHT_JOIN
	TABLE
	TERMINATED
	THEN
	TINYINT
	TO
	TRAILING
	TRIGGER
	TRUE
	UNION
	UNIQUE
	UNLOCK
	UNSIGNED
	UPDATE
	USAGE
	USE
	USING
	UTC_DATE
	UTC_TIME
	UTC_TIMESTAMP
	VALUES
	VARBINARY
	VARCHAR
	VIRTUAL
	WHEN
	WHERE
	WHILE
	WINDOW
	WITH
	WRITE
	XOR
	ZEROFILL

	// Unreserved keywords.
	ACTION
	ADVISE
	AFTER
	AGAINST
	ALGORITHM
	ALWAYS
	ANY
	ASCII
	AUTO_INCREMENT
	AVG_ROW_LENGTH
	BEGIN
	BIT
	BOOL
	BOOLEAN
	BTREE
	BYTE
	CASCADED
	CHARSET
	CHECKSUM
	CLEANUP
	COLUMNS
	COMMENT
	COMMIT
	COMMITTED
	COMPACT
	COMPRESSED
	CONSISTENT
	CURRENT
	DATA
	DATE
	DATETIME
	DAY
	DAY_HOUR
	DAY_MICROSECOND
	DAY_MINUTE
	DAY_SECOND
	DEALLOCATE
	DEFINER
	DIRECTORY
	DISABLE
	DISCARD
	DO
	DUPLICATE
	DYNAMIC
	ENABLE
	ENCRYPTION
	END
	ENFORCED
	ENGINE
	ENGINES
	ENUM
	ESCAPE
	EVENT
	EVENTS
	EXCLUDE
	EXECUTE
	EXPANSION
	FIELDS
	FIRST
	FIXED
	FOLLOWING
	FORMAT
	FULL
	FUNCTION
	GLOBAL
	GRANTS
	HASH
	HOUR
	HOUR_MICROSECOND
	HOUR_MINUTE
	HOUR_SECOND
	IDENTIFIED
	INVISIBLE
	ISOLATION
	JSON
	KEY_BLOCK_SIZE
	LANGUAGE
	LAST
	LESS
	LEVEL
	LIST
	LOCAL
	LOCKED
	MASTER
	MAX_ROWS
	MEMORY
	MICROSECOND
	MINUTE
	MINUTE_MICROSECOND
	MINUTE_SECOND
	MIN_ROWS
	MODE
	MODIFY
	MONTH
	NAMES
	NATIONAL
	NCHAR
	NEVER
	NEXT
	NO
	NONE
	NOWAIT
	NULLS
	OFFSET
	ONLY
	OPEN
	OTHERS
	PARSER
	PARTIAL
	PASSWORD
	PLUGINS
	PRECEDING
	PREPARE
	PRIVILEGES
	PROCESS
	PROCESSLIST
	PROFILES
	QUARTER
	QUERY
	QUICK
	REBUILD
	REDUNDANT
	RELOAD
	REPAIR
	REPEATABLE
	RESPECT
	RESTART
	ROLE
	ROLLBACK
	ROLLUP
	ROUTINE
	ROW_FORMAT
	SECOND
	SECOND_MICROSECOND
	SECURITY
	SERIALIZABLE
	SESSION
	SHARE
	SHUTDOWN
	SIGNED
	SKIP
	SLAVE
	SNAPSHOT
	SOME
	SQL_BUFFER_RESULT
	SQL_CACHE
	SQL_NO_CACHE
	START
	STATUS
	STORAGE
	SUBPARTITION
	SUPER
	SWAPS
	TABLES
	TABLESPACE
	TEMPORARY
	TEMPTABLE
	TEXT
	THAN
	TIES
	TIME
	TIMESTAMP
	TRANSACTION
	TRIGGERS
	TRUNCATE
	TYPE
	UNBOUNDED
	UNCOMMITTED
	UNDEFINED
	UNKNOWN
	USER
	VALIDATION
	VALUE
	VARIABLES
	VIEW
	VISIBLE
	WARNINGS
	WEEK
	WITHOUT
	WORK
	X509
	YEAR
	YEAR_MONTH

	// Non-reserved keywords that collide with built-in function names.
	ADDDATE
	APPROX_COUNT_DISTINCT
	APPROX_PERCENTILE
	AVG
	BIT_AND
	BIT_OR
	BIT_XOR
	CAST
	COUNT
	CURDATE
	CURTIME
	DATE_ADD
	DATE_SUB
	EXTRACT
	GET_FORMAT
	GROUP_CONCAT
	JSON_ARRAYAGG
	JSON_OBJECTAGG
	MAX
	MIN
	NOW
	POSITION
	STD
	STDDEV
	STDDEV_POP
	STDDEV_SAMP
	SUBDATE
	SUBSTR
	SUBSTRING
	SUM
	SYSDATE
	TIMESTAMPADD
	TIMESTAMPDIFF
	TRIM
	VARIANCE
	VAR_POP
	VAR_SAMP

	// Engine-internal (TiDB) keywords.
	ADMIN
	BUCKETS
	BUILTINS
	CANCEL
	CMSKETCH
	DDL
	DEPTH
	DRAINER
	JOB
	JOBS
	NODE_ID
	NODE_STATE
	OPTIMISTIC
	PESSIMISTIC
	PUMP
	REGION
	REGIONS
	SAMPLES
	SPLIT
	STATS
	STATS_BUCKETS
	STATS_HEALTHY
	STATS_HISTOGRAMS
	STATS_META
	TIDB
	TOPN

	keywordEnd
)

// keywordText holds the canonical spelling of every keyword, indexed from
// keywordBeg+1. The lexer builds one case-insensitive rule per entry.
var keywordText = [...]string{
	"ADD", "ALL", "ALTER", "ANALYZE", "AND", "AS", "ASC", "BETWEEN", "BIGINT", "BINARY", "BLOB",
	"BOTH", "BY", "CALL", "CASCADE", "CASE", "CHANGE", "CHAR", "CHARACTER", "CHECK", "COLLATE",
	"COLUMN", "CONSTRAINT", "CONVERT", "CREATE", "CROSS", "CUME_DIST", "CURRENT_DATE", "CURRENT_TIME",
	"CURRENT_TIMESTAMP", "CURRENT_USER", "DATABASE", "DATABASES", "DECIMAL", "DEFAULT", "DELAYED",
	"DELETE", "DENSE_RANK", "DESC", "DESCRIBE", "DISTINCT", "DISTINCTROW", "DIV", "DOUBLE", "DROP",
	"DUAL", "ELSE", "ELSEIF", "ENCLOSED", "ESCAPED", "EXCEPT", "EXISTS", "EXPLAIN", "FALSE", "FETCH",
	"FIRST_VALUE", "FLOAT", "FOR", "FORCE", "FOREIGN", "FROM", "FULLTEXT", "GENERATED", "GRANT",
	"GROUP", "GROUPS", "HAVING", "HIGH_PRIORITY", "IF", "IGNORE", "IN", "INDEX", "INFILE", "INNER",
	"INSERT", "INT", "INTEGER", "INTERSECT", "INTERVAL", "INTO", "IS", "ITERATE", "JOIN", "KEY",
	"KEYS", "KILL", "LAG", "LAST_VALUE", "LATERAL", "LEAD", "LEADING", "LEAVE", "LEFT", "LIKE",
	"LIMIT", "LINEAR", "LINES", "LOAD", "LOCALTIME", "LOCALTIMESTAMP", "LOCK", "LONG", "LOOP",
	"LOW_PRIORITY", "MATCH", "MOD", "NATURAL", "NOT", "NO_WRITE_TO_BINLOG", "NTH_VALUE", "NTILE",
	"NULL", "NUMERIC", "OF", "ON", "OPTIMIZE", "OPTION", "OPTIONALLY", "OR", "ORDER", "OUT", "OUTER",
	"OUTFILE", "OVER", "PARTITION", "PERCENT_RANK", "PRIMARY", "PROCEDURE", "RANGE", "RANK", "READ",
	"REAL", "RECURSIVE", "REFERENCES", "REGEXP", "RELEASE", "RENAME", "REPEAT", "REPLACE", "REQUIRE",
	"RESTRICT", "RETURN", "REVOKE", "RIGHT", "RLIKE", "ROW", "ROWS", "ROW_NUMBER", "SCHEMA",
	"SCHEMAS", "SELECT", "SEPARATOR", "SET", "SHOW", "SMALLINT", "SPATIAL", "SQL_BIG_RESULT",
	"SQL_CALC_FOUND_ROWS", "SQL_SMALL_RESULT", "STARTING", "STORED", "STRAIGHT_JOIN", "TABLE",
	"TERMINATED", "THEN", "TINYINT", "TO", "TRAILING", "TRIGGER", "TRUE", "UNION", "UNIQUE", "UNLOCK",
	"UNSIGNED", "UPDATE", "USAGE", "USE", "USING", "UTC_DATE", "UTC_TIME", "UTC_TIMESTAMP", "VALUES",
	"VARBINARY", "VARCHAR", "VIRTUAL", "WHEN", "WHERE", "WHILE", "WINDOW", "WITH", "WRITE", "XOR",
	"ZEROFILL", "ACTION", "ADVISE", "AFTER", "AGAINST", "ALGORITHM", "ALWAYS", "ANY", "ASCII",
	"AUTO_INCREMENT", "AVG_ROW_LENGTH", "BEGIN", "BIT", "BOOL", "BOOLEAN", "BTREE", "BYTE",
	"CASCADED", "CHARSET", "CHECKSUM", "CLEANUP", "COLUMNS", "COMMENT", "COMMIT", "COMMITTED",
	"COMPACT", "COMPRESSED", "CONSISTENT", "CURRENT", "DATA", "DATE", "DATETIME", "DAY", "DAY_HOUR",
	"DAY_MICROSECOND", "DAY_MINUTE", "DAY_SECOND", "DEALLOCATE", "DEFINER", "DIRECTORY", "DISABLE",
	"DISCARD", "DO", "DUPLICATE", "DYNAMIC", "ENABLE", "ENCRYPTION", "END", "ENFORCED", "ENGINE",
	"ENGINES", "ENUM", "ESCAPE", "EVENT", "EVENTS", "EXCLUDE", "EXECUTE", "EXPANSION", "FIELDS",
	"FIRST", "FIXED", "FOLLOWING", "FORMAT", "FULL", "FUNCTION", "GLOBAL", "GRANTS", "HASH", "HOUR",
	"HOUR_MICROSECOND", "HOUR_MINUTE", "HOUR_SECOND", "IDENTIFIED", "INVISIBLE", "ISOLATION", "JSON",
	"KEY_BLOCK_SIZE", "LANGUAGE", "LAST", "LESS", "LEVEL", "LIST", "LOCAL", "LOCKED", "MASTER",
	"MAX_ROWS", "MEMORY", "MICROSECOND", "MINUTE", "MINUTE_MICROSECOND", "MINUTE_SECOND", "MIN_ROWS",
	"MODE", "MODIFY", "MONTH", "NAMES", "NATIONAL", "NCHAR", "NEVER", "NEXT", "NO", "NONE", "NOWAIT",
	"NULLS", "OFFSET", "ONLY", "OPEN", "OTHERS", "PARSER", "PARTIAL", "PASSWORD", "PLUGINS",
	"PRECEDING", "PREPARE", "PRIVILEGES", "PROCESS", "PROCESSLIST", "PROFILES", "QUARTER", "QUERY",
	"QUICK", "REBUILD", "REDUNDANT", "RELOAD", "REPAIR", "REPEATABLE", "RESPECT", "RESTART", "ROLE",
	"ROLLBACK", "ROLLUP", "ROUTINE", "ROW_FORMAT", "SECOND", "SECOND_MICROSECOND", "SECURITY",
	"SERIALIZABLE", "SESSION", "SHARE", "SHUTDOWN", "SIGNED", "SKIP", "SLAVE", "SNAPSHOT", "SOME",
	"SQL_BUFFER_RESULT", "SQL_CACHE", "SQL_NO_CACHE", "START", "STATUS", "STORAGE", "SUBPARTITION",
	"SUPER", "SWAPS", "TABLES", "TABLESPACE", "TEMPORARY", "TEMPTABLE", "TEXT", "THAN", "TIES",
	"TIME", "TIMESTAMP", "TRANSACTION", "TRIGGERS", "TRUNCATE", "TYPE", "UNBOUNDED", "UNCOMMITTED",
	"UNDEFINED", "UNKNOWN", "USER", "VALIDATION", "VALUE", "VARIABLES", "VIEW", "VISIBLE", "WARNINGS",
	"WEEK", "WITHOUT", "WORK", "X509", "YEAR", "YEAR_MONTH", "ADDDATE", "APPROX_COUNT_DISTINCT",
	"APPROX_PERCENTILE", "AVG", "BIT_AND", "BIT_OR", "BIT_XOR", "CAST", "COUNT", "CURDATE", "CURTIME",
	"DATE_ADD", "DATE_SUB", "EXTRACT", "GET_FORMAT", "GROUP_CONCAT", "JSON_ARRAYAGG",
	"JSON_OBJECTAGG", "MAX", "MIN", "NOW", "POSITION", "STD", "STDDEV", "STDDEV_POP", "STDDEV_SAMP",
	"SUBDATE", "SUBSTR", "SUBSTRING", "SUM", "SYSDATE", "TIMESTAMPADD", "TIMESTAMPDIFF", "TRIM",
	"VARIANCE", "VAR_POP", "VAR_SAMP", "ADMIN", "BUCKETS", "BUILTINS", "CANCEL", "CMSKETCH", "DDL",
	"DEPTH", "DRAINER", "JOB", "JOBS", "NODE_ID", "NODE_STATE", "OPTIMISTIC", "PESSIMISTIC", "PUMP",
	"REGION", "REGIONS", "SAMPLES", "SPLIT", "STATS", "STATS_BUCKETS", "STATS_HEALTHY",
	"STATS_HISTOGRAMS", "STATS_META", "TIDB", "TOPN",
}

// keywordRanges assigns a classification to each contiguous keyword block.
var keywordRanges = []struct {
	first, last TokenType
	class       KeywordClass
}{
	{ADD, ZEROFILL, Reserved},
	{ACTION, YEAR_MONTH, Unreserved},
	{ADDDATE, VAR_SAMP, FuncNameConflict},
	{ADMIN, TOPN, EngineInternal},
}
