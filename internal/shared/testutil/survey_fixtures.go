package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Survey maps raw file names to CSV content
type Survey map[string]string

// Header-only versions of every raw table with the columns later stages read
const (
	SitesHeader      = "SiteCode,Lat_WGS84,Lon_WGS84\n"
	VisitsHeader     = "SpringID,VisitDate,MonitoringStatus,SpringType,DPL\n"
	SpCondHeader     = "SiteCode,VisitDate,SpecificConductance_microS_per_cm,DPL\n"
	PHHeader         = "SiteCode,VisitDate,pH,DPL\n"
	TempHeader       = "SiteCode,VisitDate,WaterTemperature_C,DPL\n"
	DOHeader         = "SiteCode,VisitDate,DissolvedOxygen_mg_per_L,DPL\n"
	DischVolHeader   = "SiteCode,VisitDate,ContainerVolume_mL,FillTime_seconds\n"
	DischEstHeader   = "SiteCode,VisitDate,DischargeClass_L_per_s\n"
	FlowCondHeader   = "SiteCode,VisitDate,FlowCondition\n"
	VegetationHeader = "SiteCode,VisitDate,IsVegetationObserved\n"
	InvasiveHeader   = "SiteCode,VisitDate,USDAPlantsCode\n"
	DisturbHeader    = "SiteCode,VisitDate,Overall\n"
	FlowModHeader    = "SiteCode,VisitDate,FlowModificationStatus,ModificationType\n"
	WildlifeHeader   = "SiteCode,VisitDate,IsWildlifeObserved\n"
)

// EmptySurvey returns every raw table with a header and no rows
func EmptySurvey() Survey {
	return Survey{
		"Sites.csv":                       SitesHeader,
		"Visits.csv":                      VisitsHeader,
		"WaterQualitySpCond.csv":          SpCondHeader,
		"WaterQualitypH.csv":              PHHeader,
		"WaterQualityTemperature.csv":     TempHeader,
		"WaterQualityDO.csv":              DOHeader,
		"DischargeVolumetric.csv":         DischVolHeader,
		"DischargeEstimated.csv":          DischEstHeader,
		"DischargeFlowCondition.csv":      FlowCondHeader,
		"Vegetation.csv":                  VegetationHeader,
		"InvasivePlants.csv":              InvasiveHeader,
		"Disturbance.csv":                 DisturbHeader,
		"DisturbanceFlowModification.csv": FlowModHeader,
		"Wildlife.csv":                    WildlifeHeader,
	}
}

// MinimalSurvey is two sites visited in two years, one pH value missing,
// and vegetation observed at site A only.
func MinimalSurvey() Survey {
	s := EmptySurvey()
	s["Sites.csv"] = SitesHeader +
		"A,36.46,-116.37\n" +
		"B,36.51,-116.42\n"
	s["Visits.csv"] = VisitsHeader +
		"A,2019-05-01,Active,Rheocrene,Accepted\n" +
		"A,2020-05-03,Active,Rheocrene,Accepted\n" +
		"B,2019-06-11,Active,Limnocrene,Accepted\n" +
		"B,2020-06-09,Active,Limnocrene,Accepted\n"
	s["WaterQualitypH.csv"] = PHHeader +
		"A,2019-05-01,7.2,Accepted\n" +
		"A,2020-05-03,7.6,Accepted\n" +
		"B,2019-06-11,8.1,Accepted\n" +
		"B,2020-06-09,,Accepted\n"
	s["Vegetation.csv"] = VegetationHeader +
		"A,2019-05-01,Y\n"
	return s
}

// With returns a copy of the survey with one file replaced
func (s Survey) With(file, content string) Survey {
	out := make(Survey, len(s))
	for k, v := range s {
		out[k] = v
	}
	out[file] = content
	return out
}

// Without returns a copy of the survey lacking one file
func (s Survey) Without(file string) Survey {
	out := make(Survey, len(s))
	for k, v := range s {
		if k != file {
			out[k] = v
		}
	}
	return out
}

// WriteSurvey writes every file of the survey into dir
func WriteSurvey(t *testing.T, dir string, survey Survey) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range survey {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}
