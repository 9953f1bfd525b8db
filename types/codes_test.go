package types

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestDecodeReportType(t *testing.T) {
	require.Equal(t, ReportTypeSpontaneous, DecodeReportType("1"))
	require.Equal(t, ReportTypeStudy, DecodeReportType("2"))
	require.Equal(t, ReportTypeOtherSource, DecodeReportType("3"))
	require.Equal(t, ReportTypeNotAvailable, DecodeReportType("4"))
	require.Equal(t, ReportType("9"), DecodeReportType("9"))
	require.False(t, DecodeReportType("9").Valid())
}

func TestDecodeSex(t *testing.T) {
	require.Equal(t, SexMale, DecodeSex("1"))
	require.Equal(t, SexFemale, DecodeSex("2"))
	require.Equal(t, SexUnknown, DecodeSex(""))
	require.Equal(t, SexUnknown, DecodeSex("0"))
}

func TestDecodeDrugRole(t *testing.T) {
	require.Equal(t, DrugRoleSuspect, DecodeDrugRole("1"))
	require.Equal(t, DrugRoleConcomitant, DecodeDrugRole("2"))
	require.Equal(t, DrugRoleInteracting, DecodeDrugRole("3"))
	// Unknown values pass through verbatim for the audit trail.
	require.Equal(t, DrugRole("unknown-role"), DecodeDrugRole("unknown-role"))
	require.False(t, DecodeDrugRole("unknown-role").Valid())
}

func TestAgeUnitToYears(t *testing.T) {
	require.Equal(t, 10.0, AgeUnitToYears("800"))
	require.Equal(t, 1.0, AgeUnitToYears("801"))
	require.Equal(t, 1.0, AgeUnitToYears(""), "years is the default unit")
	require.Equal(t, 1.0/12, AgeUnitToYears("802"))
	require.Equal(t, 1.0/365, AgeUnitToYears("804"))
	require.Equal(t, 1.0, AgeUnitToYears("999"), "unknown unit codes fall back to years")
}

func TestSeriousnessAny(t *testing.T) {
	require.False(t, Seriousness{}.Any())
	require.True(t, Seriousness{Other: true}.Any())
	require.True(t, Seriousness{Death: true, Hospitalization: true}.Any())
}
