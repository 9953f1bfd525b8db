package mapper

import (
	"thinktrends.com/icsr/types"
	"thinktrends.com/icsr/xmltree"
	"github.com/stretchr/testify/require"
	"testing"
)

func parse(t *testing.T, data string) *xmltree.Node {
	t.Helper()
	root, err := xmltree.Parse([]byte(data))
	require.NoError(t, err)
	return root
}

func TestMapFullDocument(t *testing.T) {
	root := parse(t, `
<ichicsr>
	<ichicsrmessageheader>
		<messagetype>ichicsr</messagetype>
		<messageformatversion>2.1</messageformatversion>
		<messagesenderidentifier>SENDER</messagesenderidentifier>
		<messagereceiveridentifier>RECEIVER</messagereceiveridentifier>
		<messagedate>20240105120000</messagedate>
	</ichicsrmessageheader>
	<safetyreport>
		<safetyreportid>US-TEST-001</safetyreportid>
		<reporttype>1</reporttype>
		<receivedate>20240102</receivedate>
		<serious>1</serious>
		<seriousnessdeath>2</seriousnessdeath>
		<seriousnesshospitalization>1</seriousnesshospitalization>
		<patient>
			<patientonsetage>54</patientonsetage>
			<patientonsetageunit>801</patientonsetageunit>
			<patientsex>2</patientsex>
			<patientweight>70.5</patientweight>
			<drug>
				<drugcharacterization>1</drugcharacterization>
				<medicinalproduct>LISINOPRIL</medicinalproduct>
				<drugindication>HYPERTENSION</drugindication>
				<drugdosagetext>10 MG, DAILY</drugdosagetext>
				<drugadministrationroute>048</drugadministrationroute>
			</drug>
			<reaction>
				<primarysourcereaction>Angioedema</primarysourcereaction>
				<reactionmeddraptcode>10002424</reactionmeddraptcode>
				<reactionoutcome>2</reactionoutcome>
			</reaction>
			<summary>
				<narrativeincludeclinical>Patient developed swelling.</narrativeincludeclinical>
			</summary>
		</patient>
	</safetyreport>
</ichicsr>`)

	doc, findings, err := Map(root)
	require.NoError(t, err)
	require.Empty(t, findings)

	require.Equal(t, "ichicsr", doc.Header.MessageType)
	require.Equal(t, "2.1", doc.Header.FormatVersion)
	require.Equal(t, "SENDER", doc.Header.SenderID)
	require.Equal(t, "RECEIVER", doc.Header.ReceiverID)

	require.Equal(t, "US-TEST-001", doc.Report.ReportID)
	require.Equal(t, types.ReportTypeSpontaneous, doc.Report.ReportType)
	require.Equal(t, "20240102", doc.Report.ReceiveDate)
	require.True(t, doc.Report.Seriousness.Hospitalization)
	require.False(t, doc.Report.Seriousness.Death, "a value other than 1 does not set the flag")
	require.True(t, doc.Report.Seriousness.Any())
	require.Equal(t, "Patient developed swelling.", doc.Report.Narrative)

	require.Equal(t, "54", doc.Patient.AgeValue)
	require.Equal(t, "801", doc.Patient.AgeUnit)
	require.Equal(t, types.SexFemale, doc.Patient.Sex)
	require.NotNil(t, doc.Patient.WeightKg)
	require.Equal(t, 70.5, *doc.Patient.WeightKg)

	require.Len(t, doc.Drugs, 1)
	drug := doc.Drugs[0]
	require.Equal(t, "LISINOPRIL", drug.Name)
	require.Equal(t, types.DrugRoleSuspect, drug.Role)
	require.Equal(t, "HYPERTENSION", drug.Indication)
	require.NotNil(t, drug.Dosage)
	require.Equal(t, "10 MG, DAILY", drug.Dosage.Text)
	require.Equal(t, "048", drug.Dosage.Route)

	require.Len(t, doc.Reactions, 1)
	reaction := doc.Reactions[0]
	require.Equal(t, "Angioedema", reaction.Term)
	require.Equal(t, "10002424", reaction.MeddraCode)
	require.Equal(t, types.OutcomeRecovering, reaction.Outcome)
}

func TestMapMissingContainers(t *testing.T) {
	cases := []struct {
		name string
		data string
		path string
	}{
		{
			name: "no message header",
			data: `<ichicsr><safetyreport><patient/></safetyreport></ichicsr>`,
			path: "ichicsrmessageheader",
		},
		{
			name: "no safety report",
			data: `<ichicsr><ichicsrmessageheader/></ichicsr>`,
			path: "safetyreport",
		},
		{
			name: "no patient",
			data: `<ichicsr><ichicsrmessageheader/><safetyreport/></ichicsr>`,
			path: "safetyreport.patient",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc, findings, err := Map(parse(t, c.data))
			require.Error(t, err)
			require.Nil(t, doc, "no partial document on structural failure")
			require.Empty(t, findings)
			structural, ok := types.AsStructuralViolation(err)
			require.True(t, ok)
			require.Equal(t, c.path, structural.Path)
		})
	}
}

func TestMapExcludedEntries(t *testing.T) {
	root := parse(t, `
<ichicsr>
	<ichicsrmessageheader/>
	<safetyreport>
		<safetyreportid>US-TEST-002</safetyreportid>
		<patient>
			<drug>
				<drugcharacterization>1</drugcharacterization>
				<medicinalproduct></medicinalproduct>
			</drug>
			<drug>
				<drugcharacterization>2</drugcharacterization>
				<medicinalproduct>ASPIRIN</medicinalproduct>
			</drug>
			<reaction>
				<reactionoutcome>1</reactionoutcome>
			</reaction>
			<reaction>
				<primarysourcereaction>Nausea</primarysourcereaction>
			</reaction>
		</patient>
	</safetyreport>
</ichicsr>`)

	doc, findings, err := Map(root)
	require.NoError(t, err)

	// The malformed entries are excluded, the rest of the document survives.
	require.Len(t, doc.Drugs, 1)
	require.Equal(t, "ASPIRIN", doc.Drugs[0].Name)
	require.Len(t, doc.Reactions, 1)
	require.Equal(t, "Nausea", doc.Reactions[0].Term)

	require.Len(t, findings, 2)
	for _, f := range findings {
		require.Equal(t, types.SeverityStructural, f.Severity)
		require.Equal(t, types.CategoryStructuralViolation, f.Category)
		require.False(t, f.Blocking())
	}
	require.Equal(t, "drugs[0].medicinalproduct", findings[0].Path)
	require.Equal(t, "reactions[0].primarysourcereaction", findings[1].Path)
}

func TestMapReactionTermFallback(t *testing.T) {
	root := parse(t, `
<ichicsr>
	<ichicsrmessageheader/>
	<safetyreport>
		<patient>
			<reaction>
				<reactionmeddrapt>Headache</reactionmeddrapt>
			</reaction>
			<reaction>
				<reactionmeddrallt>Migraine aggravated</reactionmeddrallt>
			</reaction>
		</patient>
	</safetyreport>
</ichicsr>`)

	doc, findings, err := Map(root)
	require.NoError(t, err)
	require.Empty(t, findings)
	require.Len(t, doc.Reactions, 2)
	require.Equal(t, "Headache", doc.Reactions[0].Term)
	require.Equal(t, "Migraine aggravated", doc.Reactions[1].Term)
}

func TestMapOptionalFields(t *testing.T) {
	root := parse(t, `
<ichicsr>
	<ichicsrmessageheader/>
	<safetyreport>
		<safetyreportid>US-TEST-003</safetyreportid>
		<patient>
			<drug>
				<medicinalproduct>IBUPROFEN</medicinalproduct>
			</drug>
			<reaction>
				<primarysourcereaction>Rash</primarysourcereaction>
			</reaction>
		</patient>
	</safetyreport>
</ichicsr>`)

	doc, findings, err := Map(root)
	require.NoError(t, err)
	require.Empty(t, findings)

	require.Empty(t, doc.Patient.AgeValue)
	require.Equal(t, types.SexUnknown, doc.Patient.Sex)
	require.Nil(t, doc.Patient.WeightKg)
	require.Empty(t, doc.Patient.WeightRaw)

	require.Len(t, doc.Drugs, 1)
	require.Empty(t, doc.Drugs[0].Role)
	require.Nil(t, doc.Drugs[0].Dosage, "no dosage sub-elements means no dosage struct")

	require.Len(t, doc.Reactions, 1)
	require.Empty(t, doc.Reactions[0].MeddraCode)
	require.Empty(t, doc.Reactions[0].Outcome)
}

func TestMapUnknownCodesPassThrough(t *testing.T) {
	root := parse(t, `
<ichicsr>
	<ichicsrmessageheader/>
	<safetyreport>
		<reporttype>9</reporttype>
		<patient>
			<drug>
				<drugcharacterization>7</drugcharacterization>
				<medicinalproduct>WARFARIN</medicinalproduct>
			</drug>
			<reaction>
				<primarysourcereaction>Bleeding</primarysourcereaction>
				<reactionoutcome>9</reactionoutcome>
			</reaction>
		</patient>
	</safetyreport>
</ichicsr>`)

	doc, _, err := Map(root)
	require.NoError(t, err)
	require.Equal(t, types.ReportType("9"), doc.Report.ReportType)
	require.False(t, doc.Report.ReportType.Valid())
	require.Equal(t, types.DrugRole("7"), doc.Drugs[0].Role)
	require.False(t, doc.Drugs[0].Role.Valid())
	require.Equal(t, types.ReactionOutcome("9"), doc.Reactions[0].Outcome)
}

func TestMapUnparsableWeight(t *testing.T) {
	// "NaN" and "Inf" parse as floats but are never plausible weights;
	// they get the same treatment as text that does not parse at all.
	for _, raw := range []string{"heavy", "NaN", "+Inf", "-Inf"} {
		t.Run(raw, func(t *testing.T) {
			root := parse(t, `
<ichicsr>
	<ichicsrmessageheader/>
	<safetyreport>
		<patient>
			<patientweight>`+raw+`</patientweight>
		</patient>
	</safetyreport>
</ichicsr>`)

			doc, _, err := Map(root)
			require.NoError(t, err)
			require.Nil(t, doc.Patient.WeightKg)
			require.Equal(t, raw, doc.Patient.WeightRaw)
		})
	}
}
