package model

// DischargeRow mirrors the columns of a monthly hospitalization (RD) extract
// as converted to Parquet by the public downloader. Only the columns the
// indicator pipeline reads are declared; real extracts carry many more.
// Numeric-looking fields are typed as they appear in recent revisions, where
// the facility code is stored as a number and loses its leading zeros.
type DischargeRow struct {
	FacilityCode int64  `parquet:"CNES"`
	Procedure    string `parquet:"PROC_REA"`
	LengthOfStay int32  `parquet:"DIAS_PERM"`
	Death        int32  `parquet:"MORTE"`
	ICUDays      int32  `parquet:"UTI_MES_TO"`
	Age          string `parquet:"IDADE"`
	AgeUnit      string `parquet:"COD_IDADE"`
	ICUMarker    string `parquet:"MARCA_UTI"`
}

// BedRow mirrors one line of the monthly bed inventory (LT) extract.
type BedRow struct {
	FacilityCode string `parquet:"CNES"`
	BedType      string `parquet:"CODLEITO"`
	Existing     int32  `parquet:"QT_EXIST"`
	SUS          int32  `parquet:"QT_SUS"`
}
