package output

// StatementNotes lists the computation conventions printed under detailed outputs.
var StatementNotes = []string{
	"Amounts are in whole rupees; each component is rounded half away from zero before totalling.",
	"Part months are prorated by calendar days: days covered / days in the month.",
	"DA is charged on basic pay plus NPA.",
	"HRA slabs follow the DA rate in force; TA carries DA at the same rate.",
	"An increment or refixation after the 1st is blended by days within its month.",
}
