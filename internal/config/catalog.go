package config

// TableSpec describes one raw input table
type TableSpec struct {
	Name        string
	File        string
	DateColumns []string
}

// timeVarying are the date columns parsed on measurement and ecological tables.
// Columns absent from a file are skipped.
var timeVarying = []string{VisitDateColumn, "Date"}

// DefaultTableCatalog returns the fixed list of raw tables in processing order.
func DefaultTableCatalog() []TableSpec {
	return []TableSpec{
		{Name: "Sites", File: "Sites.csv"},
		{Name: "Visits", File: "Visits.csv", DateColumns: []string{VisitDateColumn}},
		{Name: "SpCond", File: "WaterQualitySpCond.csv", DateColumns: timeVarying},
		{Name: "pH", File: "WaterQualitypH.csv", DateColumns: timeVarying},
		{Name: "Temp", File: "WaterQualityTemperature.csv", DateColumns: timeVarying},
		{Name: "DO", File: "WaterQualityDO.csv", DateColumns: timeVarying},
		{Name: "DischVol", File: "DischargeVolumetric.csv", DateColumns: timeVarying},
		{Name: "DischEst", File: "DischargeEstimated.csv", DateColumns: timeVarying},
		{Name: "FlowCond", File: "DischargeFlowCondition.csv", DateColumns: timeVarying},
		{Name: "Vegetation", File: "Vegetation.csv", DateColumns: timeVarying},
		{Name: "Invasive", File: "InvasivePlants.csv", DateColumns: timeVarying},
		{Name: "Disturb", File: "Disturbance.csv", DateColumns: timeVarying},
		{Name: "FlowMod", File: "DisturbanceFlowModification.csv", DateColumns: timeVarying},
		{Name: "Wildlife", File: "Wildlife.csv", DateColumns: timeVarying},
	}
}

// LookupTable finds a catalog entry by name
func LookupTable(name string) (TableSpec, bool) {
	for _, spec := range DefaultTableCatalog() {
		if spec.Name == name {
			return spec, true
		}
	}
	return TableSpec{}, false
}
