// SPDX-License-Identifier: GPL-3.0-or-later
// Copyright (c) 2026 Luke Horwell
// Source: github.com/lah7/sims2-4k-ui-patch

package dbpf

import "fmt"

// fileTypes maps known resource type IDs to human-readable names for
// listing and statistics output.
var fileTypes = map[uint32]string{
	TypeUIData:   "UI Data",
	TypeImage:    "Image File",
	TypeAccelDef: "Accelerator Key Definitions",
	TypeDir:      "Directory of Compressed Files",

	0x0A284D0B: "Wall Graph",
	0x0BF999E7: "Lot or Tutorial Description",
	0x0C7E9A76: "JPEG/JFIF Image",
	0x0C900FDB: "Pool Surface",
	0x1C4A276C: "Texture",
	0x2026960B: "MP3 Audio / SPX Speech / XA Audio",
	0x25232B11: "Scene Node",
	0x2A51171B: "3D Array",
	0x2C1FD8A1: "Texture Overlay XML",
	0x42434F4E: "Behaviour Constant",
	0x42484156: "Behaviour Function",
	0x424D505F: "Bitmap(s)",
	0x43415453: "Catalog String",
	0x43494745: "Image Link",
	0x43545353: "Catalog Description",
	0x44475250: "Drawgroup",
	0x46414345: "Face Properties",
	0x46414D49: "Family Information",
	0x46414D68: "Family Data",
	0x46434E53: "Global Tuning Values",
	0x46574156: "Audio Reference",
	0x474C4F42: "Global Data",
	0x484F5553: "House Data",
	0x49596978: "Material Definitions",
	0x49FF7D76: "World Database",
	0x4B58975B: "Lot or Terrain Texture Map",
	0x4C697E5A: "Material Override",
	0x4D51F042: "Cinematic Scenes",
	0x4D533EDD: "JPEG/JFIF Image",
	0x4E474248: "Neighborhood Data",
	0x4E524546: "Name Reference",
	0x4E6D6150: "Name Map",
	0x4F424A44: "Object Data",
	0x4F424A66: "Object Functions",
	0x4F626A4D: "Object Metadata",
	0x50414C54: "Image Color Palette",
	0x50455253: "Person Status",
	0x504F5349: "Edith Positional Information (deprecated)",
	0x50544250: "Package Toolkit",
	0x53494D49: "Sim Information",
	0x534C4F54: "Object Slot",
	0x53505232: "Sprites",
	0x53545223: "Text String",
	0x54415454: "Tree Attributes",
	0x54505250: "Edith SimAntics Behavior Labels",
	0x5452434E: "Behavior Constant Labels",
	0x54524545: "Tree Data",
	0x54544142: "Pie Menu Functions",
	0x54544173: "Pie Menu Strings",
	0x584D544F: "Material Object Class Dump",
	0x584F424A: "Object Class Dump",
	0x6A97042F: "Lighting (Environment Cube Light)",
	0x6B943B43: "2D Array",
	0x6C589723: "Lot Definition",
	0x6F626A74: "Main Lot Objects",
	0x7B1ACFCD: "Hitlist (TS2 format)",
	0x7BA3838C: "Geometric Node",
	0x8A84D7B0: "Wall Layer",
	0x8C1580B5: "Hairtone XML",
	0x8C3CE95A: "JPEG/JFIF Image",
	0x8C870743: "Family Ties",
	0x8CC0A14B: "Predictive Map",
	0x8DB5E4C2: "Sound Effects",
	0xAACE2EFB: "Person Data",
	0xAB4BA572: "Fence Post Layer",
	0xAB9406AA: "Roof",
	0xABCB5DA4: "Neighbourhood Terrain Geometry",
	0xABD0DC63: "Neighborhood Terrain",
	0xAC06A66F: "Lighting (Linear Fog Light)",
	0xAC06A676: "Lighting (Draw State Light)",
	0xAC4F8687: "Geometric Data Container",
	0xAC506764: "Sim Outfits",
	0xAC8A7A2E: "Neighbourhood ID",
	0xACE46235: "Surface Texture",
	0xB21BE28B: "Weather Info",
	0xBA353CE1: "The Sims SG System",
	0xC9C81B9B: "Lighting (Ambient Light)",
	0xC9C81BA3: "Lighting (Directional Light)",
	0xC9C81BA9: "Lighting (Point Light)",
	0xC9C81BAD: "Lighting (Spot Light)",
	0xCAC4FC40: "String Map",
	0xCB4387A1: "Vertex Layer",
	0xCC364C2A: "Sim Relations",
	0xCCCEF852: "Facial Structure",
	0xCD7FE87A: "Maxis Material Shader",
	0xCD95548E: "Wants and Fears",
	0xCDB467B8: "Content Registry",
	0xE519C933: "Resource Node",
	0xEA5118B0: "Effects Resource Tree",
	0xEBCF3E27: "Property Set",
	0xEC44BDDC: "Neighborhood View",
	0xED534136: "Level Information",
	0xFA1C39F7: "Singular Lot Object",
	0xFB00791E: "Animation Resource",
	0xFC6EB1F7: "Shape",
}

// TypeName returns a human-readable name for a resource type ID.
func TypeName(typeID uint32) string {
	if name, ok := fileTypes[typeID]; ok {
		return name
	}

	return fmt.Sprintf("Unknown (0x%08X)", typeID)
}
