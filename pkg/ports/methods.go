package ports

// Engine method names. They mirror the automation object model of the engine
// and are the contract shared by the catalogue bindings and engine adapters.
const (
	MethodApplicationActivate = "Application.Activate"

	MethodDocumentsAdd       = "Documents.Add"
	MethodDocumentsOpen      = "Documents.Open"
	MethodDocumentsList      = "Documents.List"
	MethodDocumentActivate   = "Document.Activate"
	MethodDocumentClose      = "Document.Close"
	MethodDocumentSave       = "Document.Save"
	MethodDocumentSaveAs     = "Document.SaveAs"
	MethodDocumentSaveCopyAs = "Document.SaveCopyAs"
	MethodDocumentUndo       = "Document.Undo"
	MethodDocumentRedo       = "Document.Redo"
	MethodRefPlanesList      = "RefPlanes.List"
	MethodProfileSetsAdd     = "ProfileSets.Add"
	MethodProfileEnd         = "Profile.End"
	MethodProfileInfo        = "Profile.Info"
	MethodLinesAdd           = "Lines2d.AddBy2Points"
	MethodConstructionAdd    = "Lines2d.AddConstructionBy2Points"
	MethodCirclesAdd         = "Circles2d.AddByCenterRadius"
	MethodArcsAdd            = "Arcs2d.AddByCenterStartEnd"
	MethodPointsAdd          = "Points2d.Add"

	MethodExtrudeFinite      = "Models.AddFiniteExtrudedProtrusion"
	MethodExtrudeInfinite    = "Models.AddExtrudedProtrusionThroughAll"
	MethodExtrudeSymmetric   = "Models.AddFiniteExtrudedProtrusionSymmetric"
	MethodExtrudeThroughNext = "Models.AddExtrudedProtrusionThroughNext"
	MethodExtrudeFromTo      = "Models.AddExtrudedProtrusionFromTo"
	MethodExtrudeThinWall    = "Models.AddExtrudedProtrusionThinWall"
	MethodRevolveFull        = "Models.AddRevolvedProtrusionFull"
	MethodRevolveFinite      = "Models.AddFiniteRevolvedProtrusion"
	MethodCutoutFinite       = "ExtrudedCutouts.AddFinite"
	MethodCutoutThroughAll   = "ExtrudedCutouts.AddThroughAll"
	MethodRoundAdd           = "Rounds.Add"
	MethodChamferAdd         = "Chamfers.AddEqualSetback"
	MethodModelsList         = "Models.List"

	MethodVariablesList = "Variables.List"
	MethodVariablesEdit = "Variables.Edit"
	MethodVariablesAdd  = "Variables.Add"

	MethodBodyRange          = "Body.Range"
	MethodBodyVolume         = "Body.Volume"
	MethodBodyMassProperties = "Body.ComputeMassProperties"
)
