package registers

// Holding register addresses.
const (
	AddrVendorID        uint16 = 0x0000
	AddrProductID       uint16 = 0x0001
	AddrHWVersion       uint16 = 0x0002
	AddrFWVersion       uint16 = 0x0003
	AddrUnitIDEcho      uint16 = 0x0004
	AddrCapabilities    uint16 = 0x0005
	AddrUptimeLow       uint16 = 0x0006
	AddrUptimeHigh      uint16 = 0x0007
	AddrStatus          uint16 = 0x0008
	AddrErrors          uint16 = 0x0009
	AddrCommitEEPROM    uint16 = 0x0012
	AddrIdentifyDurSec  uint16 = 0x0013
	AddrUnitIDConfig    uint16 = 0x0014
	AddrDiagRxOK        uint16 = 0x0020
	AddrDiagCrcErrors   uint16 = 0x0021
	AddrDiagExceptions  uint16 = 0x0022
	AddrDiagTxOK        uint16 = 0x0023
	AddrDiagUartOverrun uint16 = 0x0024
	AddrDiagLastExc     uint16 = 0x0025
	AddrAliasLength     uint16 = 0x0030
	AddrAliasData       uint16 = 0x0031

	// IdentityBlockCount is the number of holding registers read in a
	// single pass to build the core identity (vendor_id .. errors).
	IdentityBlockCount uint16 = 10

	// MaxAliasRegisters bounds how many alias_data registers are ever read
	// or written (32 registers = 64 bytes).
	MaxAliasRegisters uint16 = 32
	// MaxAliasBytes is the clamp applied to alias_length on encode.
	MaxAliasBytes int = 64

	// CommitToEEPROMMagic is the value that must be written to
	// AddrCommitEEPROM to persist current RAM configuration.
	CommitToEEPROMMagic uint16 = 0xA55A
)

// Input register addresses.
const (
	AddrTiltX       uint16 = 0x0000
	AddrTiltY       uint16 = 0x0001
	AddrTemperature uint16 = 0x0002
	AddrAccelX      uint16 = 0x0003
	AddrAccelY      uint16 = 0x0004
	AddrAccelZ      uint16 = 0x0005
	AddrGyroX       uint16 = 0x0006
	AddrGyroY       uint16 = 0x0007
	AddrGyroZ       uint16 = 0x0008
	AddrSampleLow   uint16 = 0x0009
	AddrSampleHigh  uint16 = 0x000A
	AddrQuality     uint16 = 0x000B
	AddrLoadKg      uint16 = 0x000C
	AddrWindSpeed   uint16 = 0x000D
	AddrWindDir     uint16 = 0x000E
	AddrWindMin     uint16 = 0x000F
	AddrWindMax     uint16 = 0x0010
	AddrWindAvg     uint16 = 0x0011
	AddrAccelStats  uint16 = 0x0012 // 9 registers: min/max/avg per axis
	AddrLoadMax100  uint16 = 0x001B

	// MPUBlockCount is the register count for the MPU-only window
	// (tilt_x .. sample_count, quality_flags).
	MPUBlockCount uint16 = 12
	// MPULoadBlockCount adds load_kg to the MPU-only window.
	MPULoadBlockCount uint16 = 13
	// FullBlockCount is the register count spanning MPU + load + wind +
	// wind-stats + accel-stats, starting at address 0x0000.
	FullBlockCount uint16 = 27
)
