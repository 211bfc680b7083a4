package generator

// Template data structures

type actionData struct {
	Name string
	Doc  string
}

type controllerTemplateData struct {
	Class   string
	Actions []actionData
}

type viewTemplateData struct {
	Title  string
	Layout string
}

type pageTemplateData struct {
	Component string
	Title     string
}

// Controller template
var controllerTemplate = `import type { HttpContext } from '@adonisjs/core/http'

export default class {{.Class}} {
{{- range $i, $a := .Actions}}
{{- if $i}}
{{end}}
{{- if $a.Doc}}
  /**
   * {{$a.Doc}}
   */
{{- end}}
  async {{$a.Name}}({}: HttpContext) {}
{{- end}}
}
`

// View template
var viewTemplate = `{{if .Layout}}@layout('{{.Layout}}')

@section('content')
  <h1>{{.Title}}</h1>
@end
{{else}}<h1>{{.Title}}</h1>
{{end}}`

// Page templates, keyed by extension
var pageTemplates = map[string]string{
	"tsx": `export default function {{.Component}}() {
  return <h1>{{.Title}}</h1>
}
`,
	"jsx": `export default function {{.Component}}() {
  return <h1>{{.Title}}</h1>
}
`,
	"vue": `<script setup lang="ts">
defineProps<{}>()
</script>

<template>
  <h1>{{.Title}}</h1>
</template>
`,
	"svelte": `<h1>{{.Title}}</h1>
`,
}
