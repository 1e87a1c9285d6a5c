package config

const (
	BAUD_RATE = 115200
	DATA_BITS = 8

	MIN_ACTUATOR = 1
	MAX_ACTUATOR = 9
	MIN_LEVEL    = 0
	MAX_LEVEL    = 255

	LOG_CAPACITY = 201

	DEFAULT_DRIVE_LEVEL = 128
	SERVER_PORT         = ":8080"

	// Read timeout handed to drivers so the read loop can poll for cancellation.
	READ_POLL_MS = 100
)
