package catalog

import (
	"github.com/aretw0/edgebridge/pkg/resource"
)

func uri(path string) string {
	return resource.Scheme + "://" + path
}

// Resources returns the read-only resource table.
func Resources() []resource.Spec {
	return []resource.Spec{
		{URI: uri("app/info"), Name: "Application info", Description: "Identity of the attached engine.", Operation: "app.info"},
		{URI: uri("app/connection-status"), Name: "Connection status", Description: "Live connection probe.", Operation: "app.status"},
		{URI: uri("document/list"), Name: "Open documents", Description: "Documents open in the engine.", Operation: "document.list"},
		{URI: uri("document/active"), Name: "Active document", Description: "The active document and its sketch state.", Operation: "document.active"},
		{URI: uri("document/count"), Name: "Document count", Description: "Number of open documents.", Operation: "document.count"},
		{URI: uri("document/{index}"), Name: "Document by index", Description: "One open document by 0-based index.", Operation: "document.at"},
		{URI: uri("model/features"), Name: "Features", Description: "Model features of the active document.", Operation: "model.features"},
		{URI: uri("model/feature-count"), Name: "Feature count", Description: "Number of model features.", Operation: "model.feature_count"},
		{URI: uri("model/feature/{index}"), Name: "Feature by index", Description: "One feature by 0-based index.", Operation: "model.feature"},
		{URI: uri("model/ref-planes"), Name: "Reference planes", Description: "Reference planes of the active document.", Operation: "model.ref_planes"},
		{URI: uri("model/variables"), Name: "Variables", Description: "Variables of the active document.", Operation: "variable.list"},
		{URI: uri("model/variable/{name}"), Name: "Variable by name", Description: "One variable by name.", Operation: "variable.get"},
		{URI: uri("sketch/info"), Name: "Sketch info", Description: "Sketch state of the active document.", Operation: "sketch.info"},
		{URI: uri("geometry/bounding-box"), Name: "Bounding box", Description: "Extent of the body.", Operation: "geometry.bounding_box"},
		{URI: uri("geometry/volume"), Name: "Volume", Description: "Volume of the body.", Operation: "geometry.volume"},
		{URI: uri("geometry/mass-properties/{density}"), Name: "Mass properties", Description: "Mass properties for a density in kg/m^3.", Operation: "geometry.mass_properties"},
	}
}
