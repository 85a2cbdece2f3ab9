package shader

// DefaultVertexSource is used when a shader definition names no vertex stage.
// It passes the quad through with the sprite's texture coordinates and color.
const DefaultVertexSource = `uniform mat4 oxy_mvp_matrix;
uniform mat3 oxy_uv_matrix;
attribute vec2 oxy_vertex;
attribute vec2 oxy_tex_coord;
attribute vec4 oxy_color;

varying vec2 oxy_vtex_coord;
varying vec4 oxy_vcolor;

void main() {
    gl_Position = oxy_mvp_matrix * vec4(oxy_vertex, 0.0, 1.0);
    oxy_vcolor = oxy_color;
    oxy_vtex_coord = (oxy_uv_matrix * vec3(oxy_tex_coord, 1.0)).xy;
}`

// DefaultFragmentSource is used when a shader definition names no fragment stage.
// It samples the texture and modulates it by the vertex color.
const DefaultFragmentSource = `uniform sampler2D oxy_texture;
varying vec2 oxy_vtex_coord;
varying vec4 oxy_vcolor;

void main() {
    vec4 tex_color = texture2D(oxy_texture, oxy_vtex_coord);
    gl_FragColor = tex_color * oxy_vcolor;
}`
