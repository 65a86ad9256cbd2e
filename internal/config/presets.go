package config

// The three embedded presets cover the column layouts a deployment picks
// between with --config full|light|bati. "full" carries every cadastral
// feature class this pipeline recognizes; "light" keeps only the classes
// needed for a parcel-centric viewer; "bati" keeps only buildings and
// parcels, dropping administrative boundary layers entirely.

const fullPresetJSON = `{
  "PARCELLE_id": {
    "table": "parcelle",
    "hash_geom": true,
    "fields": [
      {"source": "IDU", "target": "idu", "prefix_dep": true},
      {"source": "CONTENANCE", "target": "contenance", "data_type": "numeric"},
      {"source": "NUMERO", "target": "numero"},
      {"source": "SECTION", "target": "section"},
      {"source": "COM_ABS", "target": "commune_absorbee"}
    ]
  },
  "BATIMENT_id": {
    "table": "batiment",
    "hash_geom": true,
    "fields": [
      {"source": "IDU", "target": "idu", "prefix_dep": true},
      {"source": "DUR", "target": "dur"}
    ]
  },
  "SECTION_id": {
    "table": "section",
    "hash_geom": true,
    "fields": [
      {"source": "IDU", "target": "idu", "prefix_dep": true},
      {"source": "INDSEC", "target": "indice_section"}
    ]
  },
  "COMMUNE_id": {
    "table": "commune",
    "hash_geom": true,
    "fields": [
      {"source": "IDU", "target": "idu", "prefix_dep": true},
      {"source": "NOM_COM", "target": "nom"}
    ]
  },
  "LIEUDIT_id": {
    "table": "lieudit",
    "hash_geom": true,
    "fields": [
      {"source": "IDU", "target": "idu", "prefix_dep": true},
      {"source": "NOMLIEU", "target": "nom"}
    ]
  },
  "VOIEP_id": {
    "table": "voie_limite",
    "hash_geom": true,
    "fields": [
      {"source": "IDU", "target": "idu", "prefix_dep": true},
      {"source": "TEXTE", "target": "texte"}
    ]
  },
  "SUBDFISC_id": {
    "table": "subdivision_fiscale",
    "hash_geom": true,
    "fields": [
      {"source": "IDU", "target": "idu", "prefix_dep": true},
      {"source": "SUBDFISC", "target": "code"}
    ]
  },
  "SUBDSECT_id": {
    "table": "subdivision_section",
    "hash_geom": true,
    "fields": [
      {"source": "IDU", "target": "idu", "prefix_dep": true},
      {"source": "TEXTE", "target": "texte"}
    ]
  },
  "BORNE_id": {
    "table": "borne",
    "hash_geom": true,
    "fields": [
      {"source": "IDU", "target": "idu", "prefix_dep": true}
    ]
  },
  "NUMVOIE_id": {
    "table": "numero_voie",
    "hash_geom": true,
    "fields": [
      {"source": "IDU", "target": "idu", "prefix_dep": true},
      {"source": "TEXTE", "target": "numero"}
    ]
  },
  "TLINE_id": {
    "table": "ligne_texte",
    "hash_geom": true,
    "fields": [
      {"source": "TEXTE", "target": "texte"}
    ]
  }
}`

const lightPresetJSON = `{
  "PARCELLE_id": {
    "table": "parcelle",
    "hash_geom": true,
    "fields": [
      {"source": "IDU", "target": "idu", "prefix_dep": true},
      {"source": "CONTENANCE", "target": "contenance", "data_type": "numeric"},
      {"source": "NUMERO", "target": "numero"},
      {"source": "SECTION", "target": "section"}
    ]
  },
  "COMMUNE_id": {
    "table": "commune",
    "hash_geom": true,
    "fields": [
      {"source": "IDU", "target": "idu", "prefix_dep": true},
      {"source": "NOM_COM", "target": "nom"}
    ]
  },
  "SECTION_id": {
    "table": "section",
    "hash_geom": true,
    "fields": [
      {"source": "IDU", "target": "idu", "prefix_dep": true},
      {"source": "INDSEC", "target": "indice_section"}
    ]
  }
}`

const batiPresetJSON = `{
  "PARCELLE_id": {
    "table": "parcelle",
    "hash_geom": true,
    "fields": [
      {"source": "IDU", "target": "idu", "prefix_dep": true},
      {"source": "CONTENANCE", "target": "contenance", "data_type": "numeric"},
      {"source": "NUMERO", "target": "numero"},
      {"source": "SECTION", "target": "section"}
    ]
  },
  "BATIMENT_id": {
    "table": "batiment",
    "hash_geom": true,
    "fields": [
      {"source": "IDU", "target": "idu", "prefix_dep": true},
      {"source": "DUR", "target": "dur"}
    ]
  }
}`
