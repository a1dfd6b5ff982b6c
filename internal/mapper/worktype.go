package mapper

import "strings"

// WorkClass is a classified category of field work. Classification drives
// safety defaults, equipment lists and calculation factors on the target
// schema; legacy DSM exports carry only free-form type names.
type WorkClass string

const (
	ClassCoreDrilling WorkClass = "core_drilling"
	ClassWallSawing   WorkClass = "wall_sawing"
	ClassFlatSawing   WorkClass = "flat_sawing"
	ClassWireSawing   WorkClass = "wire_sawing"
	ClassHandSawing   WorkClass = "hand_sawing"
	ClassDemolition   WorkClass = "demolition"
	ClassGrinding     WorkClass = "grinding_polishing"
	ClassScanning     WorkClass = "scanning"
	ClassBreaking     WorkClass = "breaking"
	ClassGeneric      WorkClass = "generic"
)

// Factors are the numeric calculation defaults attached to a work class.
type Factors struct {
	MaterialDensity float64 // kg/m3
	CuttingSpeed    float64 // cm2/min
	WearRate        float64 // mm/hour of segment wear
	WaterUsage      float64 // l/min
	PowerUsage      float64 // kW
}

// ClassProfile is the fixed default set for one work class.
type ClassProfile struct {
	DustSuppression  bool
	SilicaMonitoring bool
	SafetyLevel      string
	DefaultHours     float64
	DefaultEquipment []string
	Factors          Factors
}

// classKeywords is checked in order; the first keyword found as a substring of
// the lowercased type name decides the class.
var classKeywords = []struct {
	keyword string
	class   WorkClass
}{
	{"wall saw", ClassWallSawing},
	{"flat saw", ClassFlatSawing},
	{"slab saw", ClassFlatSawing},
	{"wire saw", ClassWireSawing},
	{"hand saw", ClassHandSawing},
	{"chain saw", ClassHandSawing},
	{"core", ClassCoreDrilling},
	{"drill", ClassCoreDrilling},
	{"demolit", ClassDemolition},
	{"demo", ClassDemolition},
	{"grind", ClassGrinding},
	{"polish", ClassGrinding},
	{"scan", ClassScanning},
	{"gpr", ClassScanning},
	{"x-ray", ClassScanning},
	{"xray", ClassScanning},
	{"break", ClassBreaking},
	{"jackhammer", ClassBreaking},
	{"saw", ClassFlatSawing},
}

var classProfiles = map[WorkClass]ClassProfile{
	ClassCoreDrilling: {
		DustSuppression:  true,
		SilicaMonitoring: true,
		SafetyLevel:      "medium",
		DefaultHours:     4,
		DefaultEquipment: []string{"core drill rig", "diamond core bits", "water tank", "vacuum pads"},
		Factors:          Factors{MaterialDensity: 2400, CuttingSpeed: 45, WearRate: 0.8, WaterUsage: 4, PowerUsage: 3.2},
	},
	ClassWallSawing: {
		DustSuppression:  true,
		SilicaMonitoring: true,
		SafetyLevel:      "high",
		DefaultHours:     6,
		DefaultEquipment: []string{"track-mounted wall saw", "diamond blades", "water supply", "blade guards"},
		Factors:          Factors{MaterialDensity: 2400, CuttingSpeed: 120, WearRate: 1.2, WaterUsage: 8, PowerUsage: 15},
	},
	ClassFlatSawing: {
		DustSuppression:  true,
		SilicaMonitoring: true,
		SafetyLevel:      "medium",
		DefaultHours:     5,
		DefaultEquipment: []string{"walk-behind flat saw", "diamond blades", "water tank"},
		Factors:          Factors{MaterialDensity: 2300, CuttingSpeed: 180, WearRate: 1.0, WaterUsage: 10, PowerUsage: 35},
	},
	ClassWireSawing: {
		DustSuppression:  true,
		SilicaMonitoring: true,
		SafetyLevel:      "critical",
		DefaultHours:     10,
		DefaultEquipment: []string{"wire saw drive", "diamond wire", "pulleys", "water supply", "exclusion barriers"},
		Factors:          Factors{MaterialDensity: 2500, CuttingSpeed: 60, WearRate: 2.0, WaterUsage: 12, PowerUsage: 30},
	},
	ClassHandSawing: {
		DustSuppression:  true,
		SilicaMonitoring: true,
		SafetyLevel:      "high",
		DefaultHours:     3,
		DefaultEquipment: []string{"hand saw", "diamond blades", "water attachment", "face shield"},
		Factors:          Factors{MaterialDensity: 2300, CuttingSpeed: 80, WearRate: 1.5, WaterUsage: 5, PowerUsage: 6},
	},
	ClassDemolition: {
		DustSuppression:  true,
		SilicaMonitoring: true,
		SafetyLevel:      "critical",
		DefaultHours:     8,
		DefaultEquipment: []string{"robotic demolition unit", "breakers", "dust misting cannon", "debris chutes"},
		Factors:          Factors{MaterialDensity: 2400, CuttingSpeed: 0, WearRate: 3.0, WaterUsage: 15, PowerUsage: 25},
	},
	ClassGrinding: {
		DustSuppression:  true,
		SilicaMonitoring: true,
		SafetyLevel:      "medium",
		DefaultHours:     6,
		DefaultEquipment: []string{"planetary grinder", "diamond tooling", "HEPA vacuum"},
		Factors:          Factors{MaterialDensity: 2300, CuttingSpeed: 0, WearRate: 0.5, WaterUsage: 0, PowerUsage: 11},
	},
	ClassScanning: {
		DustSuppression:  false,
		SilicaMonitoring: false,
		SafetyLevel:      "low",
		DefaultHours:     2,
		DefaultEquipment: []string{"GPR scanner", "marking paint", "survey tablet"},
		Factors:          Factors{MaterialDensity: 0, CuttingSpeed: 0, WearRate: 0, WaterUsage: 0, PowerUsage: 0.1},
	},
	ClassBreaking: {
		DustSuppression:  true,
		SilicaMonitoring: true,
		SafetyLevel:      "high",
		DefaultHours:     6,
		DefaultEquipment: []string{"hydraulic breaker", "compressor", "water mister"},
		Factors:          Factors{MaterialDensity: 2400, CuttingSpeed: 0, WearRate: 2.5, WaterUsage: 6, PowerUsage: 20},
	},
	ClassGeneric: {
		DustSuppression:  false,
		SilicaMonitoring: false,
		SafetyLevel:      "low",
		DefaultHours:     4,
		DefaultEquipment: []string{"standard hand tools", "PPE kit"},
		Factors:          Factors{MaterialDensity: 2300, CuttingSpeed: 0, WearRate: 0, WaterUsage: 0, PowerUsage: 0},
	},
}

// ClassifyWorkType decides the work class for a free-form type name.
func ClassifyWorkType(name string) WorkClass {
	lower := strings.ToLower(name)
	for _, ck := range classKeywords {
		if strings.Contains(lower, ck.keyword) {
			return ck.class
		}
	}
	return ClassGeneric
}

// Profile returns the fixed defaults for a class, falling back to generic.
func Profile(class WorkClass) ClassProfile {
	if p, ok := classProfiles[class]; ok {
		return p
	}
	return classProfiles[ClassGeneric]
}
