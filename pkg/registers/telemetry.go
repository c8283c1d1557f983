package registers

// AxisStats is a decoded min/max/avg triple, used for wind and per-axis
// acceleration statistics windows.
type AxisStats struct {
	Min float64
	Max float64
	Avg float64
}

// Telemetry is the decoded form of an input-register read. Which fields are
// populated depends on which window was read, driven by the device's
// capability set; zero value means "not read this pass".
type Telemetry struct {
	HasMPU      bool
	TiltX       float64
	TiltY       float64
	Temperature float64
	AccelX      float64
	AccelY      float64
	AccelZ      float64
	GyroX       float64
	GyroY       float64
	GyroZ       float64
	SampleCount uint32
	Quality     uint16

	HasLoad bool
	LoadKg  float64
	LoadMax float64

	HasWind       bool
	WindSpeed     float64
	WindDirection float64
	WindStats     AxisStats

	HasAccelStats bool
	AccelXStats   AxisStats
	AccelYStats   AxisStats
	AccelZStats   AxisStats
}

// DecodeMPUBlock decodes the 12-register MPU-only window starting at
// AddrTiltX (tilt_x .. quality_flags).
func DecodeMPUBlock(regs []uint16) Telemetry {
	var t Telemetry
	decodeMPUCore(&t, regs)
	return t
}

// DecodeMPULoadBlock decodes the 13-register MPU+load window starting at
// AddrTiltX.
func DecodeMPULoadBlock(regs []uint16) Telemetry {
	var t Telemetry
	decodeMPUCore(&t, regs)
	t.HasLoad = true
	t.LoadKg = DecodeScaledSigned(regs[12], 100)
	return t
}

// DecodeFullBlock decodes the 27-register MPU + load + wind + wind-stats +
// accel-stats window starting at AddrTiltX.
func DecodeFullBlock(regs []uint16) Telemetry {
	var t Telemetry
	decodeMPUCore(&t, regs)
	t.HasLoad = true
	t.LoadKg = DecodeScaledSigned(regs[12], 100)

	t.HasWind = true
	t.WindSpeed = DecodeScaledUnsigned(regs[13], 100)
	t.WindDirection = DecodeScaledUnsigned(regs[14], 1)
	t.WindStats = AxisStats{
		Min: DecodeScaledUnsigned(regs[15], 100),
		Max: DecodeScaledUnsigned(regs[16], 100),
		Avg: DecodeScaledUnsigned(regs[17], 100),
	}

	t.HasAccelStats = true
	t.AccelXStats = AxisStats{
		Min: DecodeScaledSigned(regs[18], 1000),
		Max: DecodeScaledSigned(regs[19], 1000),
		Avg: DecodeScaledSigned(regs[20], 1000),
	}
	t.AccelYStats = AxisStats{
		Min: DecodeScaledSigned(regs[21], 1000),
		Max: DecodeScaledSigned(regs[22], 1000),
		Avg: DecodeScaledSigned(regs[23], 1000),
	}
	t.AccelZStats = AxisStats{
		Min: DecodeScaledSigned(regs[24], 1000),
		Max: DecodeScaledSigned(regs[25], 1000),
		Avg: DecodeScaledSigned(regs[26], 1000),
	}
	return t
}

// DecodeLoadOnlyBlock decodes the 4-register load-only window starting at
// AddrSampleLow (sample_count lo/hi, quality_flags, load_kg).
func DecodeLoadOnlyBlock(regs []uint16) Telemetry {
	var t Telemetry
	t.SampleCount = DecodePair(regs[0], regs[1])
	t.Quality = regs[2]
	t.HasLoad = true
	t.LoadKg = DecodeScaledSigned(regs[3], 100)
	return t
}

// DecodeWindOnlyBlock decodes the 9-register wind-only window starting at
// AddrSampleLow (sample_count lo/hi, quality_flags, a reserved register not
// meaningful without Load capability, wind now, wind stats).
func DecodeWindOnlyBlock(regs []uint16) Telemetry {
	var t Telemetry
	t.SampleCount = DecodePair(regs[0], regs[1])
	t.Quality = regs[2]
	// regs[3] is load_kg on the wire but reserved for a Wind-only device.
	t.HasWind = true
	t.WindSpeed = DecodeScaledUnsigned(regs[4], 100)
	t.WindDirection = DecodeScaledUnsigned(regs[5], 1)
	t.WindStats = AxisStats{
		Min: DecodeScaledUnsigned(regs[6], 100),
		Max: DecodeScaledUnsigned(regs[7], 100),
		Avg: DecodeScaledUnsigned(regs[8], 100),
	}
	return t
}

func decodeMPUCore(t *Telemetry, regs []uint16) {
	t.HasMPU = true
	t.TiltX = DecodeScaledSigned(regs[0], 100)
	t.TiltY = DecodeScaledSigned(regs[1], 100)
	t.Temperature = DecodeScaledSigned(regs[2], 100)
	t.AccelX = DecodeScaledSigned(regs[3], 1000)
	t.AccelY = DecodeScaledSigned(regs[4], 1000)
	t.AccelZ = DecodeScaledSigned(regs[5], 1000)
	t.GyroX = DecodeScaledSigned(regs[6], 1000)
	t.GyroY = DecodeScaledSigned(regs[7], 1000)
	t.GyroZ = DecodeScaledSigned(regs[8], 1000)
	t.SampleCount = DecodePair(regs[9], regs[10])
	t.Quality = regs[11]
}
